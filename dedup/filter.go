package dedup

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pddkit/emd"
	"github.com/katalvlaran/pddkit/lattice"
	"github.com/katalvlaran/pddkit/pdd"
)

// Filter removes near-duplicate configurations.
//
// Steps:
//  1. Validate tol (ErrNegativeTolerance); empty input returns an empty Result.
//  2. Fingerprint every configuration with pdd.ComputeAll (Workers goroutines).
//  3. Run FilterFingerprints on the fingerprints.
//  4. Collect the survivors in their original relative order.
//
// The lowest index of every near-duplicate group survives. The policy is
// greedy and order dependent: with A≈B, B≈C and A≉C, A removes B and C
// survives although it is close to B.
//
// Errors from fingerprinting or distances abort the call; no partial
// result is returned.
//
// Complexity: n·PDD + O(n²)·EMD in the worst case (no duplicates).
func Filter(ctx context.Context, cfgs []lattice.Configuration, tol float64, k int, opts ...Option) (Result, error) {
	if err := checkTolerance(tol); err != nil {
		return Result{}, err
	}
	o := gatherOptions(opts)
	if len(cfgs) == 0 {
		return Result{Kept: []lattice.Configuration{}, Indices: []int{}}, nil
	}

	start := time.Now()
	pddOpts := append([]pdd.Option{pdd.WithWorkers(o.Workers), pdd.WithLogger(o.Logger)}, o.PDD...)
	fps, err := pdd.ComputeAll(ctx, cfgs, k, pddOpts...)
	if err != nil {
		return Result{}, fmt.Errorf("dedup: %w", err)
	}
	o.Metrics.ObserveFingerprints(time.Since(start))

	keep, err := filter(ctx, fps, tol, o)
	if err != nil {
		return Result{}, err
	}

	res := Result{Kept: make([]lattice.Configuration, len(keep)), Indices: keep}
	for i, idx := range keep {
		res.Kept[i] = cfgs[idx]
	}

	return res, nil
}

// FilterFingerprints is Filter over precomputed fingerprints and returns the
// surviving indices in ascending order. Callers holding a fingerprint cache
// use it to avoid recomputing PDDs.
func FilterFingerprints(ctx context.Context, fps []pdd.PDD, tol float64, opts ...Option) ([]int, error) {
	if err := checkTolerance(tol); err != nil {
		return nil, err
	}

	return filter(ctx, fps, tol, gatherOptions(opts))
}

// filter runs the greedy pass. For each surviving i the distances to all
// surviving j > i are computed concurrently, then applied in ascending j.
// Removals caused by i only affect later rows, so the outcome equals the
// sequential loop.
func filter(ctx context.Context, fps []pdd.PDD, tol float64, o Options) ([]int, error) {
	n := len(fps)
	removed := roaring.New()

	for i := 0; i < n; i++ {
		if removed.Contains(uint32(i)) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var candidates []int
		for j := i + 1; j < n; j++ {
			if !removed.Contains(uint32(j)) {
				candidates = append(candidates, j)
			}
		}
		if len(candidates) == 0 {
			break
		}

		dist, err := distances(ctx, fps, i, candidates, o)
		if err != nil {
			return nil, err
		}

		for c, j := range candidates {
			if o.OnDistance != nil {
				o.OnDistance(i, j, dist[c])
			}
			if dist[c] <= tol {
				removed.Add(uint32(j))
				o.Metrics.IncrementRemoved()
				o.Logger.Debug("dedup: removed near-duplicate",
					"index", j, "kept", i, "emd", dist[c], "tolerance", tol)
			}
		}
	}

	keep := make([]int, 0, n-int(removed.GetCardinality()))
	for i := 0; i < n; i++ {
		if !removed.Contains(uint32(i)) {
			keep = append(keep, i)
		}
	}

	return keep, nil
}

// distances returns EMD(fps[i], fps[j]) for every j in candidates, computed
// over o.Workers goroutines. The first failure cancels the rest.
func distances(ctx context.Context, fps []pdd.PDD, i int, candidates []int, o Options) ([]float64, error) {
	out := make([]float64, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for c, j := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := distance(fps, i, j, o)
			if err != nil {
				return err
			}
			out[c] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// distance computes one timed EMD and wraps failures with the pair.
func distance(fps []pdd.PDD, i, j int, o Options) (float64, error) {
	start := time.Now()
	d, err := emd.Distance(fps[i], fps[j], o.EMD...)
	if err != nil {
		return 0, fmt.Errorf("dedup: distance (%d, %d): %w", i, j, err)
	}
	o.Metrics.ObserveDistance(time.Since(start))

	return d, nil
}

func checkTolerance(tol float64) error {
	if math.IsNaN(tol) || tol < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeTolerance, tol)
	}
	return nil
}
