/*
Package view provides lazily evaluated image views.

A View computes pixel values on demand.  Views compose: per-pixel views wrap one
or two source views with a function, crops translate coordinates, and block caches
keep recently rasterized tiles of an expensive source.  Nothing is computed until
At is called or a region is rasterized into an in-memory Image.

Coordinates follow the (i, j, p) convention: i is the column, j is the row, and p is
the plane.
*/
package view

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrDimensions is returned when a view reports negative dimensions.
	ErrDimensions = errors.New("view has negative dimensions")

	// ErrSizeMismatch is returned when views combined pixel by pixel differ in size.
	ErrSizeMismatch = errors.New("views differ in size")

	// ErrOutOfBounds is returned when a requested region is not inside a view.
	ErrOutOfBounds = errors.New("region outside view bounds")
)

// View is a 2d image with one or more planes whose pixels are computed on demand.
type View[T any] interface {
	Cols() int
	Rows() int
	Planes() int

	// At returns the pixel at column i, row j, and plane p.  Callers must stay
	// within [0,Cols) x [0,Rows) x [0,Planes).
	At(i, j, p int) T
}

// MultiplyAccessible is implemented by views that are cheap enough to evaluate
// any number of times, so a rasterizer never needs to buffer them first.
type MultiplyAccessible interface {
	MultiplyAccessible() bool
}

// IsMultiplyAccessible returns true if v declares itself cheap to re-evaluate.
// Views that make no declaration are assumed expensive.
func IsMultiplyAccessible(v any) bool {
	if ma, ok := v.(MultiplyAccessible); ok {
		return ma.MultiplyAccessible()
	}
	return false
}

// Bounds returns the rectangle covering a view's columns and rows.
func Bounds[T any](v View[T]) image.Rectangle {
	return image.Rect(0, 0, v.Cols(), v.Rows())
}

// CheckDims returns an error wrapping ErrDimensions if a view has a negative size.
func CheckDims[T any](v View[T]) error {
	if v.Cols() < 0 || v.Rows() < 0 || v.Planes() < 0 {
		return fmt.Errorf("%w: %d cols x %d rows x %d planes", ErrDimensions, v.Cols(), v.Rows(), v.Planes())
	}
	return nil
}

// SameSize returns an error wrapping ErrSizeMismatch unless both views have the
// same columns and rows.  Plane counts may differ.
func SameSize[S, T any](a View[S], b View[T]) error {
	if a.Cols() != b.Cols() || a.Rows() != b.Rows() {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, a.Cols(), a.Rows(), b.Cols(), b.Rows())
	}
	return nil
}
