package dedup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pddkit/matrix"
	"github.com/katalvlaran/pddkit/pdd"
)

// Pairwise returns the symmetric n×n matrix of EMDs between fingerprints,
// with a zero diagonal. Every unordered pair is solved once, over
// Options.Workers goroutines; OnDistance sees the pairs in row-major order
// after all of them are known.
//
// Errors: ErrEmptyInput for zero fingerprints; the first distance failure
// otherwise, wrapped with its pair.
// Complexity: n(n−1)/2 EMD solves.
func Pairwise(ctx context.Context, fps []pdd.PDD, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts)
	n := len(fps)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	out, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				d, err := distance(fps, i, j, o)
				if err != nil {
					return err
				}
				// Distinct cells per goroutine.
				_ = out.Set(i, j, d)
				_ = out.Set(j, i, d)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if o.OnDistance != nil {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d, _ := out.At(i, j)
				o.OnDistance(i, j, d)
			}
		}
	}

	return out, nil
}
