package mask

import (
	"context"
	"fmt"

	"github.com/janelia-flyem/maskview/core"
	"github.com/janelia-flyem/maskview/view"
)

// FloodRegion marks zero-valued pixels that are 4-connected to the image edge through
// other zero-valued pixels.  Unlike Boundaries it is exact for any shape of no-data
// region, at the cost of one bit of state per pixel.  Zero-valued pixels enclosed by
// data stay valid.
type FloodRegion struct {
	cols, rows int
	masked     []bool
}

func (f *FloodRegion) Cols() int { return f.cols }
func (f *FloodRegion) Rows() int { return f.rows }

func (f *FloodRegion) Valid(i, j int) bool {
	return !f.masked[j*f.cols+i]
}

func (f *FloodRegion) String() string {
	return fmt.Sprintf("flood region of %d x %d plane", f.cols, f.rows)
}

func floodRegion[T comparable](ctx context.Context, src view.View[T], plane, workers int, zeroPhase, fillPhase core.Progress) (*FloodRegion, error) {
	cols, rows := src.Cols(), src.Rows()
	isZero := make([]bool, cols*rows)
	var zero T
	err := forEachLine(ctx, rows, workers, zeroPhase, func(j int) {
		line := isZero[j*cols : (j+1)*cols]
		for i := range line {
			line[i] = src.At(i, j, plane) == zero
		}
	})
	if err != nil {
		return nil, err
	}

	masked := make([]bool, cols*rows)
	if cols == 0 || rows == 0 {
		fillPhase.ReportFinished()
		return &FloodRegion{cols: cols, rows: rows, masked: masked}, nil
	}
	var queue []int
	seed := func(i, j int) {
		n := j*cols + i
		if isZero[n] && !masked[n] {
			masked[n] = true
			queue = append(queue, n)
		}
	}
	for i := 0; i < cols; i++ {
		seed(i, 0)
		seed(i, rows-1)
	}
	for j := 0; j < rows; j++ {
		seed(0, j)
		seed(cols-1, j)
	}

	total := float64(cols * rows)
	for visited := 0; len(queue) != 0; visited++ {
		if visited%cols == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fillPhase.ReportProgress(float64(visited) / total)
		}
		n := queue[0]
		queue = queue[1:]
		i, j := n%cols, n/cols
		if i > 0 {
			seed(i-1, j)
		}
		if i < cols-1 {
			seed(i+1, j)
		}
		if j > 0 {
			seed(i, j-1)
		}
		if j < rows-1 {
			seed(i, j+1)
		}
	}
	fillPhase.ReportFinished()
	return &FloodRegion{cols: cols, rows: rows, masked: masked}, nil
}

// FloodFill builds an exact edge region for one plane of src.  Progress covers
// [0,0.5] while zero-valued pixels are located and [0.5,1] during the fill, then
// ReportFinished is called.
func FloodFill[T comparable](ctx context.Context, src view.View[T], plane int, opts BuildOptions) (*FloodRegion, error) {
	if err := checkPlane(src, plane); err != nil {
		return nil, err
	}
	progress := opts.progress()
	f, err := floodRegion(ctx, src, plane, opts.Workers,
		core.NewSubProgress(progress, 0, 0.5), core.NewSubProgress(progress, 0.5, 1))
	if err != nil {
		return nil, err
	}
	progress.ReportFinished()
	return f, nil
}
