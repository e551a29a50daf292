package view

import (
	"image"
	"image/color"

	"github.com/janelia-flyem/maskview/pixel"
)

// The following functions rasterize plane 0 of a view into standard library images
// for encoding.

// ToGray returns an 8-bit grayscale image of a view.
func ToGray(v View[uint8]) *image.Gray {
	img := image.NewGray(Bounds(v))
	for j := 0; j < v.Rows(); j++ {
		for i := 0; i < v.Cols(); i++ {
			img.Pix[img.PixOffset(i, j)] = v.At(i, j, 0)
		}
	}
	return img
}

// ToGray16 returns a 16-bit grayscale image of a view.
func ToGray16(v View[uint16]) *image.Gray16 {
	img := image.NewGray16(Bounds(v))
	for j := 0; j < v.Rows(); j++ {
		for i := 0; i < v.Cols(); i++ {
			img.SetGray16(i, j, color.Gray16{Y: v.At(i, j, 0)})
		}
	}
	return img
}

// AlphaToNRGBA returns a gray-plus-alpha view of 8-bit pixels as an NRGBA image.
func AlphaToNRGBA(v View[pixel.Alpha[uint8]]) *image.NRGBA {
	img := image.NewNRGBA(Bounds(v))
	for j := 0; j < v.Rows(); j++ {
		for i := 0; i < v.Cols(); i++ {
			px := v.At(i, j, 0)
			img.SetNRGBA(i, j, color.NRGBA{R: px.Value, G: px.Value, B: px.Value, A: uint8(px.A >> 8)})
		}
	}
	return img
}

// AlphaToNRGBA64 returns a gray-plus-alpha view of 16-bit pixels as an NRGBA64 image.
func AlphaToNRGBA64(v View[pixel.Alpha[uint16]]) *image.NRGBA64 {
	img := image.NewNRGBA64(Bounds(v))
	for j := 0; j < v.Rows(); j++ {
		for i := 0; i < v.Cols(); i++ {
			px := v.At(i, j, 0)
			img.SetNRGBA64(i, j, color.NRGBA64{R: px.Value, G: px.Value, B: px.Value, A: px.A})
		}
	}
	return img
}
