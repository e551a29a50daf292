package mask

import (
	"github.com/janelia-flyem/maskview/pixel"
	"github.com/janelia-flyem/maskview/view"
)

// CreateMask returns a function that marks pixels equal to nodata invalid.
func CreateMask[T comparable](nodata T) func(T) pixel.Masked[T] {
	return func(v T) pixel.Masked[T] {
		if v == nodata {
			return pixel.Masked[T]{}
		}
		return pixel.Valid(v)
	}
}

// ApplyMask returns a function that unwraps valid pixels and replaces invalid ones
// with fill.
func ApplyMask[T any](fill T) func(pixel.Masked[T]) T {
	return func(m pixel.Masked[T]) T {
		if m.Valid {
			return m.Value
		}
		return fill
	}
}

// CopyMask wraps value, marking it invalid if the reference pixel is transparent.
func CopyMask[T, R any](value T, ref R) pixel.Masked[T] {
	if pixel.IsTransparent(ref) {
		return pixel.Masked[T]{Value: value}
	}
	return pixel.Valid(value)
}

// MaskToAlpha converts validity to opacity.  Invalid pixels, and valid pixels whose
// value is itself transparent, become the fully transparent zero pixel.
func MaskToAlpha[T any](m pixel.Masked[T]) pixel.Alpha[T] {
	if !m.Valid || pixel.IsTransparent(m.Value) {
		return pixel.Alpha[T]{}
	}
	return pixel.Opaque(m.Value)
}

// CreateMaskView returns a masked view of src where pixels equal to nodata are
// invalid.  Pass the zero value of T for the usual black no-data convention.
func CreateMaskView[T comparable](src view.View[T], nodata T) (*view.UnaryView[T, pixel.Masked[T]], error) {
	if err := view.CheckDims(src); err != nil {
		return nil, err
	}
	return view.MapCheap(src, CreateMask(nodata)), nil
}

// ApplyMaskView returns an unmasked view of src with invalid pixels set to fill.
func ApplyMaskView[T any](src view.View[pixel.Masked[T]], fill T) (*view.UnaryView[pixel.Masked[T], T], error) {
	if err := view.CheckDims(src); err != nil {
		return nil, err
	}
	return view.MapCheap(src, ApplyMask(fill)), nil
}

// CopyMaskView returns the pixels of src masked wherever ref is transparent.  The two
// views may have different pixel types but must have the same number of columns and
// rows.
func CopyMaskView[T, R any](src view.View[T], ref view.View[R]) (*view.BinaryView[T, R, pixel.Masked[T]], error) {
	if err := view.CheckDims(src); err != nil {
		return nil, err
	}
	if err := view.CheckDims(ref); err != nil {
		return nil, err
	}
	return view.Map2Cheap(src, ref, CopyMask[T, R])
}

// MaskToAlphaView returns a view where invalid pixels of src are fully transparent
// and valid pixels are fully opaque.
func MaskToAlphaView[T any](src view.View[pixel.Masked[T]]) (*view.UnaryView[pixel.Masked[T], pixel.Alpha[T]], error) {
	if err := view.CheckDims(src); err != nil {
		return nil, err
	}
	return view.MapCheap(src, MaskToAlpha[T]), nil
}
