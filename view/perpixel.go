package view

import "fmt"

// UnaryView applies a function to every pixel of a source view when the pixel
// is read.  Results are never cached.
type UnaryView[S, T any] struct {
	src   View[S]
	fn    func(S) T
	cheap bool
}

// Map returns a view of fn applied to every pixel of src.  The view is assumed
// expensive and will be buffered before rasterization; use MapCheap for functions
// that are fast and order independent.
func Map[S, T any](src View[S], fn func(S) T) *UnaryView[S, T] {
	return &UnaryView[S, T]{src: src, fn: fn}
}

// MapCheap is like Map but declares fn fast enough to be re-evaluated per tile,
// so the view is multiply accessible whenever src is.
func MapCheap[S, T any](src View[S], fn func(S) T) *UnaryView[S, T] {
	return &UnaryView[S, T]{src: src, fn: fn, cheap: true}
}

func (v *UnaryView[S, T]) Cols() int   { return v.src.Cols() }
func (v *UnaryView[S, T]) Rows() int   { return v.src.Rows() }
func (v *UnaryView[S, T]) Planes() int { return v.src.Planes() }

func (v *UnaryView[S, T]) At(i, j, p int) T {
	return v.fn(v.src.At(i, j, p))
}

func (v *UnaryView[S, T]) MultiplyAccessible() bool {
	return v.cheap && IsMultiplyAccessible(v.src)
}

// Source returns the wrapped view.
func (v *UnaryView[S, T]) Source() View[S] {
	return v.src
}

// BinaryView combines two same-sized views pixel by pixel.  The second view's
// plane 0 is used when it has fewer planes than the first.
type BinaryView[A, B, T any] struct {
	a     View[A]
	b     View[B]
	fn    func(A, B) T
	cheap bool
}

// Map2 returns a view of fn applied to corresponding pixels of a and b.  The views
// must have the same number of columns and rows, and b needs at least one plane
// whenever a has any.
func Map2[A, B, T any](a View[A], b View[B], fn func(A, B) T) (*BinaryView[A, B, T], error) {
	if err := SameSize(a, b); err != nil {
		return nil, err
	}
	if b.Planes() == 0 && a.Planes() > 0 {
		return nil, fmt.Errorf("%w: second view has no planes to pair with %d", ErrSizeMismatch, a.Planes())
	}
	return &BinaryView[A, B, T]{a: a, b: b, fn: fn}, nil
}

// Map2Cheap is like Map2 but declares fn fast enough to be re-evaluated per tile.
func Map2Cheap[A, B, T any](a View[A], b View[B], fn func(A, B) T) (*BinaryView[A, B, T], error) {
	v, err := Map2(a, b, fn)
	if err != nil {
		return nil, err
	}
	v.cheap = true
	return v, nil
}

func (v *BinaryView[A, B, T]) Cols() int   { return v.a.Cols() }
func (v *BinaryView[A, B, T]) Rows() int   { return v.a.Rows() }
func (v *BinaryView[A, B, T]) Planes() int { return v.a.Planes() }

func (v *BinaryView[A, B, T]) At(i, j, p int) T {
	bp := p
	if bp >= v.b.Planes() {
		bp = 0
	}
	return v.fn(v.a.At(i, j, p), v.b.At(i, j, bp))
}

func (v *BinaryView[A, B, T]) MultiplyAccessible() bool {
	return v.cheap && IsMultiplyAccessible(v.a) && IsMultiplyAccessible(v.b)
}
