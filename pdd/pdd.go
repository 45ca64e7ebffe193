package pdd

import (
	"context"
	"fmt"

	"github.com/katalvlaran/pddkit/lattice"
	"golang.org/x/sync/errgroup"
)

// Compute returns the Pointwise Distance Distribution of cfg with k neighbours.
//
// It expands periodic image shells (lattice.Shells), finds the converged k
// nearest neighbour distances of every motif point (NeighborDistances) and
// merges equal rows into weighted ones (Collapse). The result is identical
// across calls for identical inputs, invariant to translation of the motif
// and to permutation of its points, and its weights sum to 1.
//
// Errors:
//   - ErrBadK                                   - k ≤ 0.
//   - lattice.ErrEmptyMotif / ErrSingularCell / ErrNaNInf - degenerate input.
//   - ErrNotConverged                           - MaxShells reached.
//
// Complexity: dominated by NeighborDistances.
func Compute(cfg lattice.Configuration, k int, opts ...Option) (PDD, error) {
	o := gatherOptions(opts)
	d, _, err := NeighborDistances(cfg, k, opts...)
	if err != nil {
		return PDD{}, err
	}

	return Collapse(d, o.Decimals)
}

// ComputeAll fingerprints every configuration, fanning out over
// Options.Workers goroutines. Output order matches input order; the first
// failure cancels the remaining work and is returned with its index.
//
// Complexity: Σ Compute / Workers wall time.
func ComputeAll(ctx context.Context, cfgs []lattice.Configuration, k int, opts ...Option) ([]PDD, error) {
	o := gatherOptions(opts)
	out := make([]PDD, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i := range cfgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := Compute(cfgs[i], k, opts...)
			if err != nil {
				return fmt.Errorf("pdd: configuration %d: %w", i, err)
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
