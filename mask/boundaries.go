package mask

import (
	"context"
	"fmt"

	"github.com/janelia-flyem/maskview/core"
	"github.com/janelia-flyem/maskview/view"
)

// Region answers whether a pixel of a single image plane holds valid data.
type Region interface {
	Cols() int
	Rows() int
	Valid(i, j int) bool
}

// Boundaries holds, for every row and column of an image plane, the index of the last
// zero-valued pixel in the run that starts at each end of the line.  Lines whose end
// pixel is already non-zero keep the initial bound: 0 for Left and Top, the line
// length for Right and Bottom.
//
// A Boundaries is immutable once returned by ScanBoundaries and may be shared by any
// number of goroutines.
type Boundaries struct {
	cols, rows  int
	left, right []int // indexed by row
	top, bottom []int // indexed by column
}

func (b *Boundaries) Cols() int { return b.cols }
func (b *Boundaries) Rows() int { return b.rows }

// Valid returns true if column i lies strictly between the left and right bounds of
// row j and row j lies strictly between the top and bottom bounds of column i.
//
// Because the left and top bounds start at 0, column 0 and row 0 are never valid,
// even when their pixels are non-zero.
func (b *Boundaries) Valid(i, j int) bool {
	return i > b.left[j] && i < b.right[j] && j > b.top[i] && j < b.bottom[i]
}

func copyInts(s []int) []int {
	return append(make([]int, 0, len(s)), s...)
}

// Left returns a copy of the per-row left bounds.
func (b *Boundaries) Left() []int { return copyInts(b.left) }

// Right returns a copy of the per-row right bounds.
func (b *Boundaries) Right() []int { return copyInts(b.right) }

// Top returns a copy of the per-column top bounds.
func (b *Boundaries) Top() []int { return copyInts(b.top) }

// Bottom returns a copy of the per-column bottom bounds.
func (b *Boundaries) Bottom() []int { return copyInts(b.bottom) }

func (b *Boundaries) String() string {
	return fmt.Sprintf("boundaries of %d x %d plane", b.cols, b.rows)
}

// boundaryBuilder fills the bound arrays of one plane.  Each row scan writes only
// its own left/right entries and each column scan only its own top/bottom entries,
// so lines may be scanned concurrently.
type boundaryBuilder[T comparable] struct {
	src   view.View[T]
	plane int
	b     *Boundaries
}

func newBoundaryBuilder[T comparable](src view.View[T], plane int) *boundaryBuilder[T] {
	cols, rows := src.Cols(), src.Rows()
	return &boundaryBuilder[T]{
		src:   src,
		plane: plane,
		b: &Boundaries{
			cols:   cols,
			rows:   rows,
			left:   make([]int, rows),
			right:  make([]int, rows),
			top:    make([]int, cols),
			bottom: make([]int, cols),
		},
	}
}

func (bb *boundaryBuilder[T]) scanRow(j int) {
	var zero T
	cols := bb.b.cols
	bb.b.left[j] = 0
	for i := 0; i < cols && bb.src.At(i, j, bb.plane) == zero; i++ {
		bb.b.left[j] = i
	}
	bb.b.right[j] = cols
	for i := cols - 1; i >= 0 && bb.src.At(i, j, bb.plane) == zero; i-- {
		bb.b.right[j] = i
	}
}

func (bb *boundaryBuilder[T]) scanColumn(i int) {
	var zero T
	rows := bb.b.rows
	bb.b.top[i] = 0
	for j := 0; j < rows && bb.src.At(i, j, bb.plane) == zero; j++ {
		bb.b.top[i] = j
	}
	bb.b.bottom[i] = rows
	for j := rows - 1; j >= 0 && bb.src.At(i, j, bb.plane) == zero; j-- {
		bb.b.bottom[i] = j
	}
}

// build runs the row pass and then the column pass.
func (bb *boundaryBuilder[T]) build(ctx context.Context, workers int, rowPhase, colPhase core.Progress) error {
	if err := forEachLine(ctx, bb.b.rows, workers, rowPhase, bb.scanRow); err != nil {
		return err
	}
	return forEachLine(ctx, bb.b.cols, workers, colPhase, bb.scanColumn)
}

// freeze hands the finished bounds to the caller.  The builder must not be used
// afterwards.
func (bb *boundaryBuilder[T]) freeze() *Boundaries {
	b := bb.b
	bb.b = nil
	return b
}

func scanBoundaries[T comparable](ctx context.Context, src view.View[T], plane, workers int, rowPhase, colPhase core.Progress) (*Boundaries, error) {
	bb := newBoundaryBuilder(src, plane)
	if err := bb.build(ctx, workers, rowPhase, colPhase); err != nil {
		return nil, err
	}
	return bb.freeze(), nil
}

// ScanBoundaries builds the edge boundaries of one plane of src.  A pixel is
// considered no-data only if it equals the zero value of T.  Progress covers [0,0.5]
// during the row pass and [0.5,1] during the column pass, then ReportFinished is
// called.
func ScanBoundaries[T comparable](ctx context.Context, src view.View[T], plane int, opts BuildOptions) (*Boundaries, error) {
	if err := checkPlane(src, plane); err != nil {
		return nil, err
	}
	progress := opts.progress()
	b, err := scanBoundaries(ctx, src, plane, opts.Workers,
		core.NewSubProgress(progress, 0, 0.5), core.NewSubProgress(progress, 0.5, 1))
	if err != nil {
		return nil, err
	}
	progress.ReportFinished()
	return b, nil
}

func checkPlane[T any](src view.View[T], plane int) error {
	if err := view.CheckDims(src); err != nil {
		return err
	}
	if plane < 0 || plane >= src.Planes() {
		return fmt.Errorf("plane %d out of range for view with %d planes", plane, src.Planes())
	}
	return nil
}

// CountValid returns the number of valid pixels in a region.
func CountValid(r Region) int {
	var n int
	for j := 0; j < r.Rows(); j++ {
		for i := 0; i < r.Cols(); i++ {
			if r.Valid(i, j) {
				n++
			}
		}
	}
	return n
}
