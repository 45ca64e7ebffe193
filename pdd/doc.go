// Package pdd computes Pointwise Distance Distributions (PDD), a fingerprint
// of a periodic point pattern that is invariant to translations and to the
// order in which motif points are listed.
//
// For every motif point the k smallest distances to the infinite periodic
// point cloud are collected; identical rows are merged and weighted by the
// fraction of motif points they describe:
//
//	PDD = [ (w₁, d₁₁ … d₁ₖ),
//	        (w₂, d₂₁ … d₂ₖ),
//	        … ]            Σ wᵢ = 1, dᵢ₁ ≤ … ≤ dᵢₖ
//
// Pipeline:
//
//   - lattice.Shells    - periodic images, shell by shell (forward only).
//   - NeighborDistances - grows the cloud, rebuilds a k-d tree per shell and
//     stops at the fixed point of the rounded k-NN distances, plus
//     ExtraShells confirmation shells.
//   - Collapse          - drops the self column, rounds, groups, weights and
//     sorts rows lexicographically.
//   - Compute           - the composition; ComputeAll fans it out.
//
// # Options
//
//	opts := pdd.DefaultOptions()
//	// opts.Decimals        = 3     rounding grid
//	// opts.ExtraShells     = 1     confirmation shells
//	// opts.MaxShells       = 0     unbounded
//	// opts.CertifiedRadius = false geometric stopping certificate
//	// opts.Workers         = 1     ComputeAll fan-out
//	// opts.Logger          = discard
//
// Public entry points take functional options (WithDecimals, WithLogger, …).
//
// # Errors
//
//	ErrBadK         - k ≤ 0.
//	ErrNotConverged - MaxShells reached before the fixed point.
//	ErrInvalidPDD   - Validate found a broken fingerprint.
//	lattice.ErrEmptyMotif, lattice.ErrSingularCell, lattice.ErrNaNInf pass through.
//
// Reference: Widdowson & Kurlin, "Pointwise distance distributions for
// detecting near-duplicates in large materials databases" (2021).
package pdd
