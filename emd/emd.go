package emd

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pddkit/matrix"
	"github.com/katalvlaran/pddkit/pdd"
)

// Distance returns the Earth Mover's Distance between two fingerprints.
//
// Steps:
//  1. Validate: both non-empty, equal k, positive weights, each weight
//     column summing to 1 within WeightTolerance (else ErrShapeMismatch).
//  2. Divide each weight column by its sum so the transportation problem
//     is balanced.
//  3. Cost matrix: Chebyshev distance between distance rows (CostMatrix).
//  4. Solve the balanced transportation problem with Options.Solver.
//
// The result is 0 for identical fingerprints, symmetric in (p, q) up to
// solver round-off, and never silently NaN: solver failures return
// ErrNumerical.
//
// Complexity: O(mP·mQ·k) for costs plus the solver.
func Distance(p, q pdd.PDD, opts ...Option) (float64, error) {
	o := gatherOptions(opts)
	if p.K() == 0 || q.K() == 0 || p.K() != q.K() {
		return 0, fmt.Errorf("%w: k=%d vs k=%d", ErrShapeMismatch, p.K(), q.K())
	}
	wp, err := weights(p, o.WeightTolerance)
	if err != nil {
		return 0, err
	}
	wq, err := weights(q, o.WeightTolerance)
	if err != nil {
		return 0, err
	}
	cost, err := CostMatrix(p, q)
	if err != nil {
		return 0, err
	}

	d, err := o.Solver.Solve(wp, wq, cost)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(d) || d < 0 {
		return 0, fmt.Errorf("%w: solver returned %g", ErrNumerical, d)
	}

	return d, nil
}

// CostMatrix returns the mP×mQ matrix of Chebyshev distances
// max_l |p.Rows[i].Distances[l] − q.Rows[j].Distances[l]|.
//
// Errors: ErrShapeMismatch on empty fingerprints or rows of different length.
// Complexity: O(mP·mQ·k).
func CostMatrix(p, q pdd.PDD) (*matrix.Dense, error) {
	if p.Len() == 0 || q.Len() == 0 {
		return nil, fmt.Errorf("%w: empty fingerprint", ErrShapeMismatch)
	}
	k := p.K()
	cost, err := matrix.NewDense(p.Len(), q.Len())
	if err != nil {
		return nil, err
	}
	for i, rp := range p.Rows {
		if len(rp.Distances) != k {
			return nil, fmt.Errorf("%w: row %d of first fingerprint has %d distances", ErrShapeMismatch, i, len(rp.Distances))
		}
		for j, rq := range q.Rows {
			if len(rq.Distances) != k {
				return nil, fmt.Errorf("%w: row %d of second fingerprint has %d distances", ErrShapeMismatch, j, len(rq.Distances))
			}
			_ = cost.Set(i, j, chebyshev(rp.Distances, rq.Distances))
		}
	}

	return cost, nil
}

// chebyshev returns max |a[l]−b[l]| for equal-length slices.
func chebyshev(a, b []float64) float64 {
	d := 0.0
	for l := range a {
		d = max(d, math.Abs(a[l]-b[l]))
	}
	return d
}

// weights extracts and normalises the weight column.
func weights(p pdd.PDD, tol float64) ([]float64, error) {
	w := p.Weights()
	sum := 0.0
	for i, x := range w {
		if !(x > 0) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: weight %d is %g", ErrShapeMismatch, i, x)
		}
		sum += x
	}
	if math.Abs(sum-1) > tol {
		return nil, fmt.Errorf("%w: weights sum to %g", ErrShapeMismatch, sum)
	}
	if sum != 1 {
		for i := range w {
			w[i] /= sum
		}
	}

	return w, nil
}
