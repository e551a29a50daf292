package view

import (
	"fmt"
	"image"
	"image/color"
)

// Image is an in-memory view backed by a slice of pixels.  Pixels are stored
// plane by plane, each plane in row-major order.
type Image[T any] struct {
	Pix []T

	cols, rows, planes int
}

// NewImage allocates an image of the given size with zero-valued pixels.  It panics
// if any dimension is negative.
func NewImage[T any](cols, rows, planes int) *Image[T] {
	if cols < 0 || rows < 0 || planes < 0 {
		panic(fmt.Sprintf("view.NewImage: negative dimensions %d x %d x %d", cols, rows, planes))
	}
	return &Image[T]{
		Pix:    make([]T, cols*rows*planes),
		cols:   cols,
		rows:   rows,
		planes: planes,
	}
}

// ImageFromSlice wraps an existing row-major, single-plane slice of pixels.
func ImageFromSlice[T any](pix []T, cols, rows int) (*Image[T], error) {
	if cols < 0 || rows < 0 {
		return nil, fmt.Errorf("%w: %d cols x %d rows", ErrDimensions, cols, rows)
	}
	if len(pix) != cols*rows {
		return nil, fmt.Errorf("slice of %d pixels cannot hold %d x %d image", len(pix), cols, rows)
	}
	return &Image[T]{Pix: pix, cols: cols, rows: rows, planes: 1}, nil
}

func (img *Image[T]) Cols() int   { return img.cols }
func (img *Image[T]) Rows() int   { return img.rows }
func (img *Image[T]) Planes() int { return img.planes }

func (img *Image[T]) offset(i, j, p int) int {
	return (p*img.rows+j)*img.cols + i
}

func (img *Image[T]) At(i, j, p int) T {
	return img.Pix[img.offset(i, j, p)]
}

// Set stores a pixel value.
func (img *Image[T]) Set(i, j, p int, value T) {
	img.Pix[img.offset(i, j, p)] = value
}

// Fill sets every pixel in the plane p to value.
func (img *Image[T]) Fill(p int, value T) {
	start := img.offset(0, 0, p)
	plane := img.Pix[start : start+img.cols*img.rows]
	for n := range plane {
		plane[n] = value
	}
}

func (img *Image[T]) MultiplyAccessible() bool { return true }

// --- Views over standard library images.  Pixels are read in place. ---

type grayView struct {
	img *image.Gray
}

// FromGray returns a single-plane view of an 8-bit grayscale image.
func FromGray(img *image.Gray) View[uint8] {
	return grayView{img}
}

func (v grayView) Cols() int                { return v.img.Rect.Dx() }
func (v grayView) Rows() int                { return v.img.Rect.Dy() }
func (v grayView) Planes() int              { return 1 }
func (v grayView) MultiplyAccessible() bool { return true }

func (v grayView) At(i, j, p int) uint8 {
	return v.img.Pix[v.img.PixOffset(v.img.Rect.Min.X+i, v.img.Rect.Min.Y+j)]
}

type gray16View struct {
	img *image.Gray16
}

// FromGray16 returns a single-plane view of a 16-bit grayscale image.
func FromGray16(img *image.Gray16) View[uint16] {
	return gray16View{img}
}

func (v gray16View) Cols() int                { return v.img.Rect.Dx() }
func (v gray16View) Rows() int                { return v.img.Rect.Dy() }
func (v gray16View) Planes() int              { return 1 }
func (v gray16View) MultiplyAccessible() bool { return true }

func (v gray16View) At(i, j, p int) uint16 {
	return v.img.Gray16At(v.img.Rect.Min.X+i, v.img.Rect.Min.Y+j).Y
}

type nrgbaView struct {
	img *image.NRGBA
}

// FromNRGBA returns a single-plane view of a non-premultiplied color image.
func FromNRGBA(img *image.NRGBA) View[color.NRGBA] {
	return nrgbaView{img}
}

func (v nrgbaView) Cols() int                { return v.img.Rect.Dx() }
func (v nrgbaView) Rows() int                { return v.img.Rect.Dy() }
func (v nrgbaView) Planes() int              { return 1 }
func (v nrgbaView) MultiplyAccessible() bool { return true }

func (v nrgbaView) At(i, j, p int) color.NRGBA {
	return v.img.NRGBAAt(v.img.Rect.Min.X+i, v.img.Rect.Min.Y+j)
}

type anyImageView struct {
	img image.Image
}

// FromImage returns a single-plane 8-bit grayscale view of any image.  Every read
// converts through color.GrayModel, so the view is not multiply accessible; wrap it
// in a BlockCache before scanning it repeatedly.
func FromImage(img image.Image) View[uint8] {
	return anyImageView{img}
}

func (v anyImageView) Cols() int   { return v.img.Bounds().Dx() }
func (v anyImageView) Rows() int   { return v.img.Bounds().Dy() }
func (v anyImageView) Planes() int { return 1 }

func (v anyImageView) At(i, j, p int) uint8 {
	b := v.img.Bounds()
	return color.GrayModel.Convert(v.img.At(b.Min.X+i, b.Min.Y+j)).(color.Gray).Y
}
