// Package emd defines options, the solver interface and sentinel errors for
// Earth Mover's Distance between fingerprints.
package emd

import (
	"errors"

	"github.com/katalvlaran/pddkit/matrix"
)

var (
	// ErrShapeMismatch indicates fingerprints that cannot be compared: empty,
	// different k, non-positive weights, or weights not summing to 1.
	ErrShapeMismatch = errors.New("emd: fingerprint shape mismatch")

	// ErrNumerical indicates that the transportation problem could not be
	// solved. Balanced, well-formed inputs never trigger it, so it signals a
	// defect rather than an expected outcome.
	ErrNumerical = errors.New("emd: transportation problem failed")
)

// Defaults - single source of truth for zero-value behaviour.
const (
	// DefaultWeightTolerance is the accepted deviation of Σ weights from 1.
	DefaultWeightTolerance = 1e-6

	// DefaultEpsilon is the relative tolerance on reduced costs.
	DefaultEpsilon = 1e-12

	// DefaultMaxPivots bounds simplex pivots; 0 selects an automatic bound
	// proportional to the number of flow variables.
	DefaultMaxPivots = 0
)

const (
	panicWeightToleranceInvalid = "emd: WithWeightTolerance: tolerance must be finite and >= 0"
	panicSolverNil              = "emd: WithSolver: solver must not be nil"
)

// Solver solves the balanced transportation problem
//
//	minimise   Σᵢⱼ cost[i][j]·f[i][j]
//	subject to Σⱼ f[i][j] = supply[i],  Σᵢ f[i][j] = demand[j],  0 ≤ f ≤ 1
//
// and returns the optimal objective. len(supply) = cost.Rows(),
// len(demand) = cost.Cols(), Σ supply = Σ demand.
type Solver interface {
	Solve(supply, demand []float64, cost *matrix.Dense) (float64, error)
}

// Options configures Distance.
//
// Fields:
//   - Solver          - transportation solver (default NetworkSimplex).
//   - WeightTolerance - accepted |Σ w − 1| per fingerprint (default 1e-6).
type Options struct {
	Solver          Solver
	WeightTolerance float64
}

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Solver:          NewNetworkSimplex(),
		WeightTolerance: DefaultWeightTolerance,
	}
}

// WithSolver selects the transportation solver.
func WithSolver(s Solver) Option {
	if s == nil {
		panic(panicSolverNil)
	}
	return func(o *Options) { o.Solver = s }
}

// WithWeightTolerance sets the accepted weight-sum deviation.
func WithWeightTolerance(tol float64) Option {
	if !(tol >= 0) || tol > 1 {
		panic(panicWeightToleranceInvalid)
	}
	return func(o *Options) { o.WeightTolerance = tol }
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
