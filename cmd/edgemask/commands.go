package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/janelia-flyem/maskview/core"
	"github.com/janelia-flyem/maskview/mask"
	"github.com/janelia-flyem/maskview/pixel"
	"github.com/janelia-flyem/maskview/view"
)

// run executes a command given its arguments, writing any report to w.
func run(ctx context.Context, config *core.Config, args []string, w io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}
	command, args := args[0], args[1:]
	nargs := map[string]int{"edge": 2, "create": 2, "apply": 2, "copy": 3, "info": 1, "version": 0}
	expected, found := nargs[command]
	if !found {
		return fmt.Errorf("unknown command %q, try 'edgemask help'", command)
	}
	if len(args) != expected {
		return fmt.Errorf("command %q expects %d arguments, got %d", command, expected, len(args))
	}
	if command == "version" {
		fmt.Fprintln(w, versionString())
		return nil
	}

	img, err := readImage(args[0])
	if err != nil {
		return err
	}
	switch src := img.(type) {
	case *image.Gray16:
		return runTyped(ctx, config, command, view.FromGray16(src), args, w)
	case *image.Gray:
		return runTyped(ctx, config, command, view.FromGray(src), args, w)
	default:
		core.Infof("Converting %T input %q to 8-bit grayscale\n", img, args[0])
		var converted view.View[uint8] = view.FromImage(img)
		if config.Cache.TileSize > 0 && config.Cache.Tiles > 0 {
			cached, err := view.BlockCache(converted, config.Cache.TileSize, config.Cache.Tiles)
			if err != nil {
				return err
			}
			converted = cached
		}
		return runTyped(ctx, config, command, converted, args, w)
	}
}

type grayscale interface {
	~uint8 | ~uint16
}

func runTyped[T grayscale](ctx context.Context, config *core.Config, command string, src view.View[T], args []string, w io.Writer) error {
	switch command {
	case "edge":
		edge, err := buildEdgeMask(ctx, config, src, args[0])
		if err != nil {
			return err
		}
		return writeAlpha[T](ctx, config, edge, args[1])

	case "create":
		nodata, err := pixelValue[T]("nodata", config.Mask.NoData)
		if err != nil {
			return err
		}
		masked, err := mask.CreateMaskView(src, nodata)
		if err != nil {
			return err
		}
		return writeAlpha[T](ctx, config, masked, args[1])

	case "apply":
		fill, err := pixelValue[T]("fill", config.Mask.Fill)
		if err != nil {
			return err
		}
		edge, err := buildEdgeMask(ctx, config, src, args[0])
		if err != nil {
			return err
		}
		filled, err := mask.ApplyMaskView[T](edge, fill)
		if err != nil {
			return err
		}
		return writeGray[T](ctx, config, filled, args[1])

	case "copy":
		refImg, err := readImage(args[1])
		if err != nil {
			return err
		}
		ref, ok := refImg.(*image.NRGBA)
		if !ok {
			ref = image.NewNRGBA(refImg.Bounds())
			draw.Draw(ref, ref.Rect, refImg, refImg.Bounds().Min, draw.Src)
		}
		copied, err := mask.CopyMaskView(src, view.FromNRGBA(ref))
		if err != nil {
			return fmt.Errorf("cannot copy mask of %q onto %q: %w", args[1], args[0], err)
		}
		return writeAlpha[T](ctx, config, copied, args[2])

	case "info":
		return writeInfo(ctx, config, src, args[0], w)
	}
	return fmt.Errorf("unknown command %q", command)
}

// pixelValue converts a configured value to the pixel type of the input.
func pixelValue[T grayscale](name string, value int64) (T, error) {
	var zero T
	max := int64(^zero)
	if value < 0 || value > max {
		return zero, fmt.Errorf("%s value %d does not fit %d-bit input pixels", name, value, bitsFor(max))
	}
	return T(value), nil
}

func bitsFor(max int64) int {
	if max > math.MaxUint8 {
		return 16
	}
	return 8
}

func readImage(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode image %q: %w", filename, err)
	}
	if stat, err := f.Stat(); err == nil {
		core.Debugf("Read %s %s image %q (%d x %d)\n", humanize.Bytes(uint64(stat.Size())), format,
			filename, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return img, nil
}

func buildOptions(config *core.Config, name string) (mask.BuildOptions, error) {
	strategy, err := mask.ParseStrategy(config.Mask.Strategy)
	if err != nil {
		return mask.BuildOptions{}, err
	}
	return mask.BuildOptions{
		Strategy: strategy,
		Workers:  config.Mask.Workers,
		Progress: core.NewLogProgress("edge mask of "+name, 0.1),
	}, nil
}

func buildEdgeMask[T grayscale](ctx context.Context, config *core.Config, src view.View[T], name string) (*mask.EdgeMaskView[T], error) {
	opts, err := buildOptions(config, name)
	if err != nil {
		return nil, err
	}
	return mask.EdgeMask(ctx, src, opts)
}

// rasterize evaluates a view using the configured tile size and workers.
func rasterize[T any](ctx context.Context, config *core.Config, v view.View[T]) (*view.Image[T], error) {
	tileSize := config.Cache.TileSize
	if tileSize <= 0 {
		tileSize = core.DefaultTileSize
	}
	return view.RasterizeParallel(ctx, v, view.Bounds(v), tileSize, config.Mask.Workers)
}

func writeAlpha[T grayscale](ctx context.Context, config *core.Config, masked view.View[pixel.Masked[T]], filename string) error {
	alpha, err := mask.MaskToAlphaView(masked)
	if err != nil {
		return err
	}
	buffered, err := rasterize[pixel.Alpha[T]](ctx, config, alpha)
	if err != nil {
		return err
	}
	var out image.Image
	switch v := any(buffered).(type) {
	case view.View[pixel.Alpha[uint8]]:
		out = view.AlphaToNRGBA(v)
	case view.View[pixel.Alpha[uint16]]:
		out = view.AlphaToNRGBA64(v)
	default:
		return fmt.Errorf("unsupported pixel type %T", buffered)
	}
	return writePNG(filename, out)
}

func writeGray[T grayscale](ctx context.Context, config *core.Config, v view.View[T], filename string) error {
	buffered, err := rasterize(ctx, config, v)
	if err != nil {
		return err
	}
	var out image.Image
	switch b := any(buffered).(type) {
	case view.View[uint8]:
		out = view.ToGray(b)
	case view.View[uint16]:
		out = view.ToGray16(b)
	default:
		return fmt.Errorf("unsupported pixel type %T", buffered)
	}
	return writePNG(filename, out)
}

func writePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("unable to write PNG %q: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	core.Infof("Wrote %d x %d image to %s\n", img.Bounds().Dx(), img.Bounds().Dy(), filename)
	return nil
}

func writeInfo[T grayscale](ctx context.Context, config *core.Config, src view.View[T], name string, w io.Writer) error {
	edge, err := buildEdgeMask(ctx, config, src, name)
	if err != nil {
		return err
	}
	total := src.Cols() * src.Rows()
	valid := mask.CountValid(edge.Region(0))
	var percent float64
	if total != 0 {
		percent = 100 * float64(valid) / float64(total)
	}
	var zero T
	fmt.Fprintf(w, "%s: %d x %d, %d-bit\n", name, src.Cols(), src.Rows(), bitsFor(int64(^zero)))
	fmt.Fprintf(w, "strategy: %s\n", edge.Strategy())
	fmt.Fprintf(w, "valid pixels: %s of %s (%.1f%%)\n", humanize.Comma(int64(valid)), humanize.Comma(int64(total)), percent)
	fmt.Fprintf(w, "mask footprint: %s\n", humanize.Bytes(uint64(edge.Footprint())))
	return nil
}
