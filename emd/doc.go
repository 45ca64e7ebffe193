// Package emd computes the Earth Mover's Distance (EMD) between two
// Pointwise Distance Distributions.
//
// Two fingerprints P (mP rows) and Q (mQ rows) with the same k are treated as
// discrete distributions: row i of P carries mass wP[i] at the point
// (dᵢ₁ … dᵢₖ) ∈ ℝᵏ. The ground distance between rows is Chebyshev,
//
//	cost[i][j] = maxₗ |dP[i][l] − dQ[j][l]|,
//
// which bounds the worst per-neighbour perturbation and keeps the EMD stable
// under small atomic displacements. The EMD is the optimum of the balanced
// transportation problem
//
//	min Σ cost[i][j]·f[i][j]   s.t.  Σⱼ f[i][j] = wP[i],  Σᵢ f[i][j] = wQ[j],  f ≥ 0.
//
// Two solvers implement the Solver interface:
//
//	NetworkSimplex (default)
//	    transportation simplex over a spanning-tree basis, north-west corner
//	    start, Bland pricing; O(mP·mQ) memory for costs, O(mP+mQ) for the basis.
//	LinearProgram
//	    gonum.org/v1/gonum/optimize/convex/lp.Simplex on the dense equality
//	    form; materialises an (mP+mQ−1)×(mP·mQ) matrix, use for cross-checking.
//
// The transport plan is an intermediate value and is never returned.
//
// # Errors
//
//	ErrShapeMismatch - empty fingerprints, different k, bad weight columns.
//	ErrNumerical     - the solver failed; never expected for balanced input.
package emd
