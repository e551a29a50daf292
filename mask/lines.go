package mask

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/maskview/core"
)

// forEachLine calls scan for every line index in [0,n), reporting progress on the
// given phase.  With more than one worker the lines are split into contiguous chunks
// scanned concurrently; scan must only write state owned by its line.  The context
// is checked between lines.
func forEachLine(ctx context.Context, n, workers int, phase core.Progress, scan func(k int)) error {
	if workers <= 1 || n <= 1 {
		for k := 0; k < n; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			phase.ReportProgress(float64(k) / float64(n))
			scan(k)
		}
		phase.ReportFinished()
		return nil
	}

	var done int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			for k := start; k < end; k++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				scan(k)
				phase.ReportProgress(float64(atomic.AddInt64(&done, 1)) / float64(n))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	phase.ReportFinished()
	return nil
}
