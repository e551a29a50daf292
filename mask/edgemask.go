package mask

import (
	"context"
	"fmt"

	"github.com/DmitriyVTitov/size"
	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/maskview/core"
	"github.com/janelia-flyem/maskview/pixel"
	"github.com/janelia-flyem/maskview/view"
)

// Strategy selects how an edge mask finds no-data pixels.
type Strategy uint8

const (
	// Scan intersects per-row and per-column extents of zero runs from each edge.
	// It needs O(rows+cols) memory but misclassifies concave no-data regions.
	Scan Strategy = iota

	// Flood marks zero-valued pixels connected to the edge.  It needs O(rows*cols)
	// memory and is exact.
	Flood
)

func (s Strategy) String() string {
	switch s {
	case Scan:
		return "scan"
	case Flood:
		return "flood"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// ParseStrategy converts a configuration name to a Strategy.  The empty string
// selects Scan.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "scan":
		return Scan, nil
	case "flood":
		return Flood, nil
	default:
		return Scan, fmt.Errorf("unknown edge mask strategy %q", name)
	}
}

// BuildOptions control edge mask construction.  The zero value builds sequentially
// with the Scan strategy and no progress reporting.
type BuildOptions struct {
	Strategy Strategy

	// Workers is the number of goroutines scanning rows and columns.  Zero or one
	// scans sequentially; results are identical either way.
	Workers int

	// Progress, if non-nil, receives increasing fractions during construction and a
	// final ReportFinished.
	Progress core.Progress
}

func (opts BuildOptions) progress() core.Progress {
	if opts.Progress == nil {
		return core.NoProgress
	}
	return opts.Progress
}

// EdgeMaskView masks zero-valued pixels reaching inward from the edges of a source
// view.  All regions are computed when the view is constructed; reading a pixel is a
// constant-time lookup followed by a read of the source.
type EdgeMaskView[T comparable] struct {
	src      view.View[T]
	strategy Strategy
	regions  []Region // one per plane
}

// EdgeMask builds an edge mask of every plane of src.  Planes are scanned
// independently.  Construction blocks until both passes over every plane are done
// or ctx is canceled.
func EdgeMask[T comparable](ctx context.Context, src view.View[T], opts BuildOptions) (*EdgeMaskView[T], error) {
	if err := view.CheckDims(src); err != nil {
		return nil, err
	}
	if opts.Strategy != Scan && opts.Strategy != Flood {
		return nil, fmt.Errorf("unknown edge mask strategy %s", opts.Strategy)
	}
	timedLog := core.NewTimeLog()
	progress := opts.progress()
	planes := src.Planes()
	regions := make([]Region, planes)
	for p := 0; p < planes; p++ {
		from := float64(p) / float64(planes)
		to := float64(p+1) / float64(planes)
		mid := (from + to) / 2
		first := core.NewSubProgress(progress, from, mid)
		second := core.NewSubProgress(progress, mid, to)

		var err error
		switch opts.Strategy {
		case Flood:
			regions[p], err = floodRegion(ctx, src, p, opts.Workers, first, second)
		default:
			regions[p], err = scanBoundaries(ctx, src, p, opts.Workers, first, second)
		}
		if err != nil {
			return nil, fmt.Errorf("edge mask of plane %d: %w", p, err)
		}
	}
	progress.ReportFinished()

	v := &EdgeMaskView[T]{src: src, strategy: opts.Strategy, regions: regions}
	if core.DebugEnabled() {
		timedLog.Debugf("Built %s edge mask of %d x %d x %d view using %s", opts.Strategy,
			src.Cols(), src.Rows(), planes, humanize.Bytes(uint64(v.Footprint())))
	}
	return v, nil
}

func (v *EdgeMaskView[T]) Cols() int                { return v.src.Cols() }
func (v *EdgeMaskView[T]) Rows() int                { return v.src.Rows() }
func (v *EdgeMaskView[T]) Planes() int              { return v.src.Planes() }
func (v *EdgeMaskView[T]) MultiplyAccessible() bool { return true }

func (v *EdgeMaskView[T]) At(i, j, p int) pixel.Masked[T] {
	if v.regions[p].Valid(i, j) {
		return pixel.Valid(v.src.At(i, j, p))
	}
	return pixel.Masked[T]{}
}

// Strategy returns the strategy used to build the mask.
func (v *EdgeMaskView[T]) Strategy() Strategy {
	return v.strategy
}

// Region returns the validity region of plane p.
func (v *EdgeMaskView[T]) Region(p int) Region {
	return v.regions[p]
}

// Footprint returns the approximate number of bytes held by the mask regions.
func (v *EdgeMaskView[T]) Footprint() int {
	return size.Of(v.regions)
}
