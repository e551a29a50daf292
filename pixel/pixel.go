/*
Package pixel defines pixel wrappers that add validity or transparency to an
arbitrary underlying pixel type.

A Masked pixel carries a validity bit alongside its value.  The zero value is
invalid, so a freshly declared Masked pixel never exposes a meaningful value.
An Alpha pixel pairs a value with an opacity and is used when masks are
exported to standard image formats.
*/
package pixel

import (
	"fmt"
	"image/color"
)

// Masked wraps a pixel value with a validity bit.  Value is only meaningful when
// Valid is true.
type Masked[T any] struct {
	Value T
	Valid bool
}

// Valid returns a valid masked pixel holding v.
func Valid[T any](v T) Masked[T] {
	return Masked[T]{Value: v, Valid: true}
}

// Invalid returns an invalid masked pixel.
func Invalid[T any]() Masked[T] {
	return Masked[T]{}
}

// Invalidate returns a copy of m marked invalid.
func (m Masked[T]) Invalidate() Masked[T] {
	m.Valid = false
	return m
}

// Transparent returns true if the pixel is invalid.
func (m Masked[T]) Transparent() bool {
	return !m.Valid
}

func (m Masked[T]) String() string {
	if !m.Valid {
		return "invalid"
	}
	return fmt.Sprintf("%v", m.Value)
}

// FullAlpha is the alpha of a fully opaque pixel.
const FullAlpha = 0xffff

// Alpha pairs a pixel value with a 16-bit opacity.  The zero value is a fully
// transparent zero pixel.
type Alpha[T any] struct {
	Value T
	A     uint16
}

// Opaque returns v with full opacity.
func Opaque[T any](v T) Alpha[T] {
	return Alpha[T]{Value: v, A: FullAlpha}
}

// Transparent returns true if the pixel has zero opacity.
func (a Alpha[T]) Transparent() bool {
	return a.A == 0
}

// Transparenter is implemented by pixel types that can be fully transparent.
type Transparenter interface {
	Transparent() bool
}

// IsTransparent returns true if a pixel of any type should be treated as
// transparent.  Pixel types implementing Transparenter answer for themselves,
// colors are transparent when their alpha is zero, and all other pixel types
// (plain scalars, structs without a notion of opacity) are never transparent.
func IsTransparent(p any) bool {
	switch v := p.(type) {
	case Transparenter:
		return v.Transparent()
	case color.Color:
		_, _, _, a := v.RGBA()
		return a == 0
	default:
		return false
	}
}
