// Package lattice models periodic atomic configurations and generates their
// periodic images shell by shell.
//
// A Configuration is an ordered motif of Cartesian positions plus a general
// (not necessarily orthogonal) 3×3 cell. The structure repeats in all three
// directions, so the point set it describes is infinite:
//
//	{ p + i·a + j·b + l·c : p ∈ motif, (i,j,l) ∈ ℤ³ }
//
// Shells enumerates that infinite set as a forward-only sequence of finite
// batches ordered by the Chebyshev radius of the integer translation:
//
//	shell 0: the motif itself
//	shell 1: the 26 neighbouring cells
//	shell s: the (2s+1)³ − (2s−1)³ cells on the surface of the cube of radius s
//
// Neighbour search consumes the batches one at a time until the k nearest
// periodic neighbours of every motif point stop changing.
//
// # Errors
//
//	ErrEmptyMotif     - the motif has no points.
//	ErrSingularCell   - the cell vectors do not span 3D.
//	ErrNaNInf         - a non-finite coordinate.
//	ErrBadPermutation - Permuted received an invalid order.
//
// Vectors are github.com/golang/geo/r3 values.
package lattice
