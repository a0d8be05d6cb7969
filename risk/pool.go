package risk

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/firisk/config"
)

// atomicCounter tallies events across revaluation workers.
type atomicCounter struct {
	n atomic.Int64
}

func (c *atomicCounter) inc() {
	c.n.Add(1)
}

func (c *atomicCounter) value() int {
	return int(c.n.Load())
}

// runIndexed runs n independent revaluation jobs on a bounded worker pool,
// writing each result at its own index so ordering survives parallelism.
//
// Cancellation is checked between jobs, never mid-optimization: a cancelled
// context stops new jobs from starting and Wait reports the context error.
func runIndexed(ctx context.Context, n, workers int, job func(i int) (float64, error)) ([]float64, error) {
	if workers <= 0 {
		workers = config.GetConfig().Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]float64, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := job(i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
