package view

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

func checkRegion[T any](v View[T], bbox image.Rectangle) error {
	if !bbox.In(Bounds(v)) {
		return fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, bbox, Bounds(v))
	}
	return nil
}

// CropView is a view of a rectangular region of another view.
type CropView[T any] struct {
	src  View[T]
	bbox image.Rectangle
}

// Crop returns a view of the bbox region of src.  The region must lie inside src.
func Crop[T any](src View[T], bbox image.Rectangle) (*CropView[T], error) {
	if err := checkRegion(src, bbox); err != nil {
		return nil, err
	}
	return &CropView[T]{src: src, bbox: bbox}, nil
}

func (v *CropView[T]) Cols() int   { return v.bbox.Dx() }
func (v *CropView[T]) Rows() int   { return v.bbox.Dy() }
func (v *CropView[T]) Planes() int { return v.src.Planes() }

func (v *CropView[T]) At(i, j, p int) T {
	return v.src.At(v.bbox.Min.X+i, v.bbox.Min.Y+j, p)
}

func (v *CropView[T]) MultiplyAccessible() bool {
	return IsMultiplyAccessible(v.src)
}

func rasterizeInto[T any](ctx context.Context, dst *Image[T], dstMin image.Point, src View[T], bbox image.Rectangle) error {
	for p := 0; p < src.Planes(); p++ {
		for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			dj := y - bbox.Min.Y + dstMin.Y
			for x := bbox.Min.X; x < bbox.Max.X; x++ {
				dst.Set(x-bbox.Min.X+dstMin.X, dj, p, src.At(x, y, p))
			}
		}
	}
	return nil
}

// Rasterize evaluates the bbox region of a view into an in-memory image.  The
// context is checked between rows.
func Rasterize[T any](ctx context.Context, src View[T], bbox image.Rectangle) (*Image[T], error) {
	if err := CheckDims(src); err != nil {
		return nil, err
	}
	if err := checkRegion(src, bbox); err != nil {
		return nil, err
	}
	dst := NewImage[T](bbox.Dx(), bbox.Dy(), src.Planes())
	if err := rasterizeInto(ctx, dst, image.Point{}, src, bbox); err != nil {
		return nil, err
	}
	return dst, nil
}

// RasterizeParallel is like Rasterize but evaluates square tiles of the given size
// using up to workers goroutines.  The source view must be safe for concurrent reads.
func RasterizeParallel[T any](ctx context.Context, src View[T], bbox image.Rectangle, tileSize, workers int) (*Image[T], error) {
	if err := CheckDims(src); err != nil {
		return nil, err
	}
	if err := checkRegion(src, bbox); err != nil {
		return nil, err
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", tileSize)
	}
	dst := NewImage[T](bbox.Dx(), bbox.Dy(), src.Planes())

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, tile := range Tiles(bbox, tileSize) {
		tile := tile
		g.Go(func() error {
			return rasterizeInto(gctx, dst, tile.Min.Sub(bbox.Min), src, tile)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

// Tiles splits bbox into square tiles of the given size, clipped at the bbox edges,
// in row-major order.
func Tiles(bbox image.Rectangle, tileSize int) []image.Rectangle {
	if tileSize <= 0 || bbox.Empty() {
		return nil
	}
	var tiles []image.Rectangle
	for y := bbox.Min.Y; y < bbox.Max.Y; y += tileSize {
		for x := bbox.Min.X; x < bbox.Max.X; x += tileSize {
			tiles = append(tiles, image.Rect(x, y, x+tileSize, y+tileSize).Intersect(bbox))
		}
	}
	return tiles
}

type offsetView[T any] struct {
	img *Image[T]
	min image.Point
	src View[T]
}

func (v offsetView[T]) Cols() int                { return v.src.Cols() }
func (v offsetView[T]) Rows() int                { return v.src.Rows() }
func (v offsetView[T]) Planes() int              { return v.src.Planes() }
func (v offsetView[T]) MultiplyAccessible() bool { return true }

func (v offsetView[T]) At(i, j, p int) T {
	return v.img.At(i-v.min.X, j-v.min.Y, p)
}

// Prerasterize prepares a view for repeated access within bbox.  Multiply accessible
// views are returned unchanged; others are rasterized over bbox and the buffer is
// returned in the source's coordinates, so only pixels inside bbox may be read.
func Prerasterize[T any](ctx context.Context, src View[T], bbox image.Rectangle) (View[T], error) {
	if IsMultiplyAccessible(src) {
		return src, nil
	}
	img, err := Rasterize(ctx, src, bbox)
	if err != nil {
		return nil, err
	}
	return offsetView[T]{img: img, min: bbox.Min, src: src}, nil
}
