// Package pddkit fingerprints periodic atomic structures and prunes
// near-duplicate configurations from simulation datasets.
//
// What is in here?
//
//	A small, deterministic toolkit built around three ideas:
//		• PDD: per-atom sorted distances to the k nearest periodic neighbours,
//		  grouped into weighted rows; invariant to translation and atom order.
//		• EMD: optimal-transport distance between two PDDs with a Chebyshev
//		  ground metric.
//		• Dedup: greedy index-order removal of configurations within a tolerance.
//
// Under the hood, everything is organized in subpackages:
//
//	lattice/ - Configuration, Cell and the lazy shell expansion of periodic images
//	matrix/  - row-major Dense matrix with decimal rounding helpers
//	pdd/     - k-d tree neighbour search to a fixed point, row collapse, batch fingerprints
//	emd/     - transportation solvers (network simplex, gonum LP) and Distance
//	dedup/   - Filter, Pairwise distances, single-linkage diagnostics, metrics
//
// Quick start:
//
//	cfgs := loadFrames()                       // []lattice.Configuration
//	res, err := dedup.Filter(ctx, cfgs, 1e-3, 12, dedup.WithWorkers(8))
//	if err != nil { ... }
//	write(res.Kept)                            // survivors in original order
//
// See examples/ for a runnable trajectory-pruning program.
package pddkit
