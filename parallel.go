package corr3

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// runParallel distributes the index range [0, n) across numWorkers
// goroutines using a shared cursor, so a goroutine that finishes its
// current index immediately steals the next one instead of sitting idle
// on a slower peer's static range — the dynamic-chunked schedule spec.md
// §5 calls for, done with errgroup.Group.SetLimit instead of the
// teacher's raw sync.WaitGroup loop (parallel.go's
// ComputePairwiseDistancesParallel).
//
// bases is the set of accumulators a single top-level traversal call
// writes into (one for ProcessAuto, three for ProcessCross12, six for
// ProcessCross). Each goroutine gets its own shadow of every base, passed
// to work in the same order; every shadow is folded into its base at a
// single critical-section merge once all workers have returned.
func runParallel(ctx context.Context, n, numWorkers int, bases []*Accumulator,
	work func(ctx context.Context, shadows []*Accumulator, i int) error) error {

	if n == 0 {
		return nil
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > n {
		numWorkers = n
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	var cursor atomic.Int64
	allShadows := make([][]*Accumulator, numWorkers)

	for w := 0; w < numWorkers; w++ {
		w := w
		g.Go(func() error {
			shadows := make([]*Accumulator, len(bases))
			for k, b := range bases {
				shadows[k] = b.shadow()
			}
			allShadows[w] = shadows

			for {
				i := int(cursor.Add(1)) - 1
				if i >= n {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := work(gctx, shadows, i); err != nil {
					return err
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	for _, shadows := range allShadows {
		for k, s := range shadows {
			s.mergeInto(bases[k])
		}
	}
	return nil
}
