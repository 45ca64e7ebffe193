// Package matrix offers the dense float64 storage shared by the fingerprint
// pipeline.
//
// The matrix package provides:
//
//   - Dense, a row-major matrix with bounds-checked At/Set/Row accessors that
//     return sentinel errors instead of panicking.
//   - Round and Equal, used by neighbour search to detect the fixed point of
//     the shell expansion on a fixed-decimals grid.
//   - RoundTo, the scalar rounding rule used everywhere distances are
//     compared for equality (fingerprint rows, convergence checks).
//
// Matrices here are small: n×(k+1) neighbour distances per configuration,
// mP×mQ transport costs, N×N pairwise EMD values.
package matrix
