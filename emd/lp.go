package emd

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pddkit/matrix"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// LinearProgram solves the transportation problem as a generic linear
// program with gonum's simplex.
//
// Equality form over x = vec(f) (row-major, m·n variables):
//
//	rows 0..m-1   Σⱼ f[i][j] = supply[i]
//	rows m..m+n-2 Σᵢ f[i][j] = demand[j], j < n-1
//
// The last column constraint is implied by the balance Σ supply = Σ demand
// and is dropped so that A has full row rank. x ≥ 0 is implicit; the upper
// bound f ≤ 1 follows from the row constraints.
//
// Complexity: dense (m+n-1)×(m·n) constraint matrix; prefer NetworkSimplex
// for anything but cross-checking.
type LinearProgram struct {
	// Tol is forwarded to lp.Simplex (default 1e-10).
	Tol float64
}

// NewLinearProgram returns a solver with documented defaults.
func NewLinearProgram() *LinearProgram {
	return &LinearProgram{Tol: 1e-10}
}

// Solve implements Solver.
func (s *LinearProgram) Solve(supply, demand []float64, cost *matrix.Dense) (float64, error) {
	if cost == nil {
		return 0, fmt.Errorf("%w: nil cost matrix", ErrNumerical)
	}
	m, n := len(supply), len(demand)
	if m == 0 || n == 0 || cost.Rows() != m || cost.Cols() != n {
		return 0, fmt.Errorf("%w: cost is %dx%d for %d supplies and %d demands",
			ErrShapeMismatch, cost.Rows(), cost.Cols(), m, n)
	}

	vars := m * n
	cons := m + n - 1
	c := make([]float64, vars)
	a := mat.NewDense(cons, vars, nil)
	b := make([]float64, cons)
	for i := 0; i < m; i++ {
		b[i] = supply[i]
		for j := 0; j < n; j++ {
			v, _ := cost.At(i, j)
			c[i*n+j] = v
			a.Set(i, i*n+j, 1)
			if j < n-1 {
				a.Set(m+j, i*n+j, 1)
			}
		}
	}
	for j := 0; j < n-1; j++ {
		b[m+j] = demand[j]
	}

	tol := s.Tol
	if tol <= 0 {
		tol = 1e-10
	}
	opt, _, err := lp.Simplex(c, a, b, tol, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNumerical, err)
	}
	if math.IsNaN(opt) || math.IsInf(opt, 0) {
		return 0, fmt.Errorf("%w: objective is %g", ErrNumerical, opt)
	}

	return opt, nil
}
