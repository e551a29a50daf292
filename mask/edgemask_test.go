package mask

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	. "github.com/janelia-flyem/go/gocheck"

	"github.com/janelia-flyem/maskview/core"
	"github.com/janelia-flyem/maskview/pixel"
	"github.com/janelia-flyem/maskview/view"
)

type EdgeSuite struct{}

var _ = Suite(&EdgeSuite{})

type recordProgress struct {
	mu       sync.Mutex
	reports  []float64
	finished int
}

func (r *recordProgress) ReportProgress(f float64) {
	r.mu.Lock()
	r.reports = append(r.reports, f)
	r.mu.Unlock()
}

func (r *recordProgress) ReportFinished() {
	r.mu.Lock()
	r.finished++
	r.mu.Unlock()
}

func (r *recordProgress) checkMonotonic(c *C) {
	c.Assert(len(r.reports) > 0, Equals, true)
	for n := 1; n < len(r.reports); n++ {
		if r.reports[n] < r.reports[n-1] {
			c.Fatalf("progress went backwards at report %d: %v", n, r.reports)
		}
	}
	c.Assert(r.reports[len(r.reports)-1], Equals, 1.0)
	c.Assert(r.finished, Equals, 1)
}

// bordered returns a cols x rows image with a zero border of the given width around
// an interior of value.
func bordered(cols, rows, width int, value uint8) *view.Image[uint8] {
	img := view.NewImage[uint8](cols, rows, 1)
	for j := width; j < rows-width; j++ {
		for i := width; i < cols-width; i++ {
			img.Set(i, j, 0, value)
		}
	}
	return img
}

// frame returns a cols x rows image holding a randomly jittered data frame inside a
// zero canvas, similar to a rotated satellite scene.
func frame(cols, rows int, seed int64) *view.Image[uint16] {
	rnd := rand.New(rand.NewSource(seed))
	img := view.NewImage[uint16](cols, rows, 1)
	top, bottom := 2+rnd.Intn(3), rows-2-rnd.Intn(3)
	for j := top; j < bottom; j++ {
		left := 1 + rnd.Intn(cols/4)
		right := cols - 1 - rnd.Intn(cols/4)
		for i := left; i < right; i++ {
			img.Set(i, j, 0, uint16(1+rnd.Intn(1000)))
		}
	}
	return img
}

func buildScan[T comparable](c *C, src view.View[T], opts BuildOptions) *EdgeMaskView[T] {
	v, err := EdgeMask(context.Background(), src, opts)
	c.Assert(err, IsNil)
	return v
}

func (s *EdgeSuite) TestAllNoData(c *C) {
	src := view.NewImage[uint8](7, 5, 1)
	for _, strategy := range []Strategy{Scan, Flood} {
		v := buildScan[uint8](c, src, BuildOptions{Strategy: strategy})
		c.Assert(v.Cols(), Equals, 7)
		c.Assert(v.Rows(), Equals, 5)
		for j := 0; j < 5; j++ {
			for i := 0; i < 7; i++ {
				c.Assert(v.At(i, j, 0).Valid, Equals, false)
			}
		}
		c.Assert(CountValid(v.Region(0)), Equals, 0)
	}

	b, err := ScanBoundaries[uint8](context.Background(), src, 0, BuildOptions{})
	c.Assert(err, IsNil)
	c.Assert(b.Left(), DeepEquals, []int{6, 6, 6, 6, 6})
	c.Assert(b.Right(), DeepEquals, []int{0, 0, 0, 0, 0})
	c.Assert(b.Top(), DeepEquals, []int{4, 4, 4, 4, 4, 4, 4})
	c.Assert(b.Bottom(), DeepEquals, []int{0, 0, 0, 0, 0, 0, 0})
}

func (s *EdgeSuite) TestUniformBorder(c *C) {
	const size, width = 10, 2
	src := bordered(size, size, width, 1)
	v := buildScan[uint8](c, src, BuildOptions{})

	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			inside := i >= width && i < size-width && j >= width && j < size-width
			m := v.At(i, j, 0)
			c.Assert(m.Valid, Equals, inside, Commentf("pixel (%d,%d)", i, j))
			if inside {
				c.Assert(m.Value, Equals, uint8(1))
			}
		}
	}
	c.Assert(CountValid(v.Region(0)), Equals, (size-2*width)*(size-2*width))

	b := v.Region(0).(*Boundaries)
	c.Assert(b.Left(), DeepEquals, []int{9, 9, 1, 1, 1, 1, 1, 1, 9, 9})
	c.Assert(b.Right(), DeepEquals, []int{0, 0, 8, 8, 8, 8, 8, 8, 0, 0})
	c.Assert(b.Top(), DeepEquals, []int{9, 9, 1, 1, 1, 1, 1, 1, 9, 9})
	c.Assert(b.Bottom(), DeepEquals, []int{0, 0, 8, 8, 8, 8, 8, 8, 0, 0})

	flood := buildScan[uint8](c, src, BuildOptions{Strategy: Flood})
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			c.Assert(flood.At(i, j, 0), Equals, v.At(i, j, 0))
		}
	}
}

// The scan strategy starts the left and top bounds at 0 and tests them with a strict
// inequality, so column 0 and row 0 are masked even when they hold data, while the
// last column and row are not.  Whether this asymmetry is intended is an open
// question; consumers rely on the current behavior so it is kept.
func (s *EdgeSuite) TestFirstRowAndColumnAlwaysMasked(c *C) {
	src := view.NewImage[uint8](6, 4, 1)
	src.Fill(0, 200)
	v := buildScan[uint8](c, src, BuildOptions{})
	for j := 0; j < 4; j++ {
		for i := 0; i < 6; i++ {
			c.Assert(v.At(i, j, 0).Valid, Equals, i > 0 && j > 0, Commentf("pixel (%d,%d)", i, j))
		}
	}
	c.Assert(v.At(5, 3, 0), Equals, pixel.Valid(uint8(200)))

	// The exact flood strategy has no such asymmetry.
	flood := buildScan[uint8](c, src, BuildOptions{Strategy: Flood})
	c.Assert(CountValid(flood.Region(0)), Equals, 24)
}

func (s *EdgeSuite) TestConcaveRegion(c *C) {
	// A T-shaped no-data bay entering from the top edge, plus an isolated zero pixel
	// enclosed by data.
	src := view.NewImage[uint8](9, 9, 1)
	src.Fill(0, 1)
	for j := 0; j <= 5; j++ {
		src.Set(4, j, 0, 0)
	}
	for i := 2; i <= 6; i++ {
		src.Set(i, 5, 0, 0)
	}
	src.Set(7, 7, 0, 0)

	scan := buildScan[uint8](c, src, BuildOptions{})
	flood := buildScan[uint8](c, src, BuildOptions{Strategy: Flood})

	// The slot itself is found by both.
	c.Assert(scan.At(4, 3, 0).Valid, Equals, false)
	c.Assert(flood.At(4, 3, 0).Valid, Equals, false)

	// The arms of the T are not reachable along any row or column from an edge,
	// so the scan misclassifies them as valid data.
	c.Assert(scan.At(2, 5, 0), Equals, pixel.Valid(uint8(0)))
	c.Assert(flood.At(2, 5, 0).Valid, Equals, false)

	// Enclosed zero pixels are data for both strategies.
	c.Assert(scan.At(7, 7, 0), Equals, pixel.Valid(uint8(0)))
	c.Assert(flood.At(7, 7, 0), Equals, pixel.Valid(uint8(0)))
}

func (s *EdgeSuite) TestParallelMatchesSequential(c *C) {
	for seed := int64(1); seed <= 5; seed++ {
		src := frame(41, 29, seed)
		seq, err := ScanBoundaries[uint16](context.Background(), src, 0, BuildOptions{})
		c.Assert(err, IsNil)
		seqFlood, err := FloodFill[uint16](context.Background(), src, 0, BuildOptions{})
		c.Assert(err, IsNil)
		for _, workers := range []int{2, 3, 8, 64} {
			progress := new(recordProgress)
			par, err := ScanBoundaries[uint16](context.Background(), src, 0,
				BuildOptions{Workers: workers, Progress: progress})
			c.Assert(err, IsNil)
			c.Assert(par.Left(), DeepEquals, seq.Left())
			c.Assert(par.Right(), DeepEquals, seq.Right())
			c.Assert(par.Top(), DeepEquals, seq.Top())
			c.Assert(par.Bottom(), DeepEquals, seq.Bottom())
			progress.checkMonotonic(c)

			parFlood, err := FloodFill[uint16](context.Background(), src, 0, BuildOptions{Workers: workers})
			c.Assert(err, IsNil)
			c.Assert(parFlood.masked, DeepEquals, seqFlood.masked)
		}
	}
}

func (s *EdgeSuite) TestRepeatedQueries(c *C) {
	src := frame(30, 20, 42)
	v := buildScan[uint16](c, src, BuildOptions{Workers: 4})
	first, err := view.Rasterize[pixel.Masked[uint16]](context.Background(), v, view.Bounds[pixel.Masked[uint16]](v))
	c.Assert(err, IsNil)

	var wg sync.WaitGroup
	results := make([]*view.Image[pixel.Masked[uint16]], 4)
	for n := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], _ = view.Rasterize[pixel.Masked[uint16]](context.Background(), v, view.Bounds[pixel.Masked[uint16]](v))
		}(n)
	}
	wg.Wait()
	for _, result := range results {
		c.Assert(result.Pix, DeepEquals, first.Pix)
	}
	c.Assert(v.At(15, 10, 0), Equals, v.At(15, 10, 0))
	c.Assert(view.IsMultiplyAccessible(v), Equals, true)
}

func (s *EdgeSuite) TestProgress(c *C) {
	progress := new(recordProgress)
	src := bordered(2, 4, 0, 1)
	_, err := EdgeMask[uint8](context.Background(), src, BuildOptions{Progress: progress})
	c.Assert(err, IsNil)
	c.Assert(progress.reports, DeepEquals, []float64{0, 0.125, 0.25, 0.375, 0.5, 0.5, 0.75, 1})
	progress.checkMonotonic(c)

	for _, strategy := range []Strategy{Scan, Flood} {
		progress = new(recordProgress)
		_, err = EdgeMask[uint16](context.Background(), frame(20, 15, 3),
			BuildOptions{Strategy: strategy, Workers: 3, Progress: progress})
		c.Assert(err, IsNil)
		progress.checkMonotonic(c)
	}

	// Logging progress works as a sink too.
	logged := core.NewLogProgress("edge mask", 0.25)
	_, err = EdgeMask[uint8](context.Background(), bordered(8, 8, 1, 3), BuildOptions{Progress: logged})
	c.Assert(err, IsNil)
	c.Assert(logged.Finished(), Equals, true)
	c.Assert(logged.Fraction(), Equals, 1.0)
}

func (s *EdgeSuite) TestMultiplePlanes(c *C) {
	src := view.NewImage[uint8](6, 6, 2)
	for j := 1; j < 5; j++ {
		for i := 1; i < 5; i++ {
			src.Set(i, j, 0, 9)
		}
	}
	src.Fill(1, 7)
	src.Set(0, 3, 1, 0)

	progress := new(recordProgress)
	v, err := EdgeMask[uint8](context.Background(), src, BuildOptions{Progress: progress})
	c.Assert(err, IsNil)
	c.Assert(v.Planes(), Equals, 2)
	progress.checkMonotonic(c)

	c.Assert(v.At(1, 1, 0), Equals, pixel.Valid(uint8(9)))
	c.Assert(v.At(5, 5, 0).Valid, Equals, false)
	c.Assert(v.At(5, 5, 1), Equals, pixel.Valid(uint8(7)))
	c.Assert(CountValid(v.Region(0)), Equals, 16)
	c.Assert(CountValid(v.Region(1)), Equals, 25)
	c.Assert(v.Footprint() > 0, Equals, true)

	_, err = ScanBoundaries[uint8](context.Background(), src, 2, BuildOptions{})
	c.Assert(err, NotNil)
}

func (s *EdgeSuite) TestDegenerateGeometry(c *C) {
	for _, dims := range [][2]int{{0, 0}, {0, 5}, {5, 0}} {
		src := view.NewImage[uint8](dims[0], dims[1], 1)
		for _, strategy := range []Strategy{Scan, Flood} {
			progress := new(recordProgress)
			v, err := EdgeMask[uint8](context.Background(), src, BuildOptions{Strategy: strategy, Progress: progress})
			c.Assert(err, IsNil)
			c.Assert(v.Cols(), Equals, dims[0])
			c.Assert(v.Rows(), Equals, dims[1])
			c.Assert(CountValid(v.Region(0)), Equals, 0)
			c.Assert(progress.finished, Equals, 1)
		}
		b, err := ScanBoundaries[uint8](context.Background(), src, 0, BuildOptions{})
		c.Assert(err, IsNil)
		c.Assert(b.Left(), HasLen, dims[1])
		c.Assert(b.Top(), HasLen, dims[0])
	}

	_, err := EdgeMask[uint8](context.Background(), negativeView{}, BuildOptions{})
	c.Assert(errors.Is(err, view.ErrDimensions), Equals, true)

	_, err = EdgeMask[uint8](context.Background(), bordered(3, 3, 1, 1), BuildOptions{Strategy: Strategy(9)})
	c.Assert(err, NotNil)
}

func (s *EdgeSuite) TestCancel(c *C) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{0, 4} {
		for _, strategy := range []Strategy{Scan, Flood} {
			v, err := EdgeMask[uint16](ctx, frame(20, 20, 1), BuildOptions{Strategy: strategy, Workers: workers})
			c.Assert(v, IsNil)
			c.Assert(errors.Is(err, context.Canceled), Equals, true)
		}
	}
}

func (s *EdgeSuite) TestComposition(c *C) {
	src := bordered(8, 6, 1, 5)
	edge := buildScan[uint8](c, src, BuildOptions{})

	filled, err := ApplyMaskView[uint8](edge, 255)
	c.Assert(err, IsNil)
	gray := view.ToGray(filled)
	c.Assert(gray.GrayAt(0, 0).Y, Equals, uint8(255))
	c.Assert(gray.GrayAt(3, 3).Y, Equals, uint8(5))

	alpha, err := MaskToAlphaView[uint8](edge)
	c.Assert(err, IsNil)
	nrgba := view.AlphaToNRGBA(alpha)
	c.Assert(nrgba.NRGBAAt(0, 3).A, Equals, uint8(0))
	c.Assert(nrgba.NRGBAAt(3, 3).A, Equals, uint8(255))

	// An edge mask built over a cached expensive source gives the same answer.
	expensive := view.Map[uint8, uint8](src, func(v uint8) uint8 { return v })
	cached, err := view.BlockCache[uint8](expensive, 4, 8)
	c.Assert(err, IsNil)
	viaCache := buildScan[uint8](c, cached, BuildOptions{})
	for j := 0; j < 6; j++ {
		for i := 0; i < 8; i++ {
			c.Assert(viaCache.At(i, j, 0), Equals, edge.At(i, j, 0))
		}
	}
}

func (s *EdgeSuite) TestParseStrategy(c *C) {
	for name, expected := range map[string]Strategy{"": Scan, "scan": Scan, "flood": Flood} {
		strategy, err := ParseStrategy(name)
		c.Assert(err, IsNil)
		c.Assert(strategy, Equals, expected)
	}
	_, err := ParseStrategy("fill")
	c.Assert(err, NotNil)
	c.Assert(Flood.String(), Equals, "flood")
}
