package emd_test

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/katalvlaran/pddkit/emd"
	"github.com/katalvlaran/pddkit/lattice"
	"github.com/katalvlaran/pddkit/matrix"
	"github.com/katalvlaran/pddkit/pdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fp builds a fingerprint from (weight, distances...) tuples.
func fp(rows ...[]float64) pdd.PDD {
	p := pdd.PDD{}
	for _, r := range rows {
		p.Rows = append(p.Rows, pdd.Row{Weight: r[0], Distances: r[1:]})
	}
	return p
}

// randomPDD draws m rows of k sorted distances with random positive weights.
func randomPDD(rng *rand.Rand, m, k int) pdd.PDD {
	p := pdd.PDD{Rows: make([]pdd.Row, m)}
	total := 0.0
	for i := range p.Rows {
		d := make([]float64, k)
		for l := range d {
			d[l] = 1 + 3*rng.Float64()
		}
		slices.Sort(d)
		w := 0.1 + rng.Float64()
		total += w
		p.Rows[i] = pdd.Row{Weight: w, Distances: d}
	}
	for i := range p.Rows {
		p.Rows[i].Weight /= total
	}
	return p
}

// TestDistance_HandComputed covers small instances solvable on paper.
func TestDistance_HandComputed(t *testing.T) {
	cases := []struct {
		name string
		p, q pdd.PDD
		want float64
	}{
		{"split mass", fp([]float64{0.5, 1}, []float64{0.5, 3}), fp([]float64{1, 2}), 1},
		{"diagonal optimal", fp([]float64{0.5, 0}, []float64{0.5, 1}), fp([]float64{0.5, 0}, []float64{0.5, 2}), 0.5},
		{"pivot required", fp([]float64{0.5, 0}, []float64{0.5, 10}), fp([]float64{0.5, 10}, []float64{0.5, 0}), 0},
		{"chebyshev ground", fp([]float64{1, 1, 2, 3}), fp([]float64{1, 1.5, 2, 2.25}), 0.75},
		{"uneven", fp([]float64{0.25, 1}, []float64{0.75, 2}), fp([]float64{0.5, 1}, []float64{0.5, 2}), 0.25},
	}
	for _, tc := range cases {
		for _, solver := range []emd.Solver{emd.NewNetworkSimplex(), emd.NewLinearProgram()} {
			got, err := emd.Distance(tc.p, tc.q, emd.WithSolver(solver))
			require.NoError(t, err, tc.name)
			assert.InDelta(t, tc.want, got, 1e-9, "%s with %T", tc.name, solver)
		}
	}
}

// TestDistance_SolversAgree cross-checks the network simplex against the
// generic LP on random instances.
func TestDistance_SolversAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		p := randomPDD(rng, 1+rng.Intn(6), 4)
		q := randomPDD(rng, 1+rng.Intn(6), 4)

		ns, err := emd.Distance(p, q)
		require.NoError(t, err)
		lpv, err := emd.Distance(p, q, emd.WithSolver(emd.NewLinearProgram()))
		require.NoError(t, err)
		assert.InDelta(t, lpv, ns, 1e-9, "trial %d", trial)
	}
}

// TestDistance_SelfIsZero computes EMD(PDD(X), PDD(X)) for a real configuration.
func TestDistance_SelfIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	motif := make([]r3.Vector, 6)
	for i := range motif {
		motif[i] = r3.Vector{X: 3 * rng.Float64(), Y: 3 * rng.Float64(), Z: 3 * rng.Float64()}
	}
	cfg := lattice.Configuration{Motif: motif, Cell: lattice.CubicCell(3)}
	x, err := pdd.Compute(cfg, 8)
	require.NoError(t, err)
	require.Greater(t, x.Len(), 1)

	d, err := emd.Distance(x, x)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d, "identical fingerprints must be exactly zero apart")
}

// TestDistance_Symmetry checks EMD(A,B) = EMD(B,A).
func TestDistance_Symmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 10; trial++ {
		a := randomPDD(rng, 1+rng.Intn(7), 5)
		b := randomPDD(rng, 1+rng.Intn(7), 5)
		ab, err := emd.Distance(a, b)
		require.NoError(t, err)
		ba, err := emd.Distance(b, a)
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-12, "trial %d", trial)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

// TestDistance_ShapeMismatch covers the precondition failures.
func TestDistance_ShapeMismatch(t *testing.T) {
	k2 := fp([]float64{1, 1, 2})
	k3 := fp([]float64{1, 1, 2, 3})

	_, err := emd.Distance(k2, k3)
	assert.ErrorIs(t, err, emd.ErrShapeMismatch, "different k")

	_, err = emd.Distance(pdd.PDD{}, k2)
	assert.ErrorIs(t, err, emd.ErrShapeMismatch, "empty")

	_, err = emd.Distance(fp([]float64{0.9, 1, 2}), k2)
	assert.ErrorIs(t, err, emd.ErrShapeMismatch, "weights sum to 0.9")

	_, err = emd.Distance(fp([]float64{1, 1, 2}, []float64{0, 1, 3}), k2)
	assert.ErrorIs(t, err, emd.ErrShapeMismatch, "zero weight")

	ragged := fp([]float64{0.5, 1, 2}, []float64{0.5, 1})
	_, err = emd.CostMatrix(ragged, k2)
	assert.ErrorIs(t, err, emd.ErrShapeMismatch, "ragged rows")

	// Slightly off weights within tolerance are accepted and normalised.
	d, err := emd.Distance(fp([]float64{1 + 5e-7, 1, 2}), k2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

// failingSolver returns a fixed outcome.
type failingSolver struct {
	v   float64
	err error
}

func (f failingSolver) Solve([]float64, []float64, *matrix.Dense) (float64, error) { return f.v, f.err }

// TestDistance_Numerical surfaces solver failures instead of coercing them.
func TestDistance_Numerical(t *testing.T) {
	p := fp([]float64{1, 1})

	_, err := emd.Distance(p, p, emd.WithSolver(failingSolver{v: math.NaN()}))
	assert.ErrorIs(t, err, emd.ErrNumerical, "NaN objective")

	boom := errors.New("boom")
	_, err = emd.Distance(p, p, emd.WithSolver(failingSolver{err: boom}))
	assert.ErrorIs(t, err, boom)

	cost, _ := matrix.NewDenseFromRows([][]float64{{1}})
	_ = cost.Set(0, 0, math.Inf(1))
	_, err = emd.NewNetworkSimplex().Solve([]float64{1}, []float64{1}, cost)
	assert.ErrorIs(t, err, emd.ErrNumerical, "infinite cost")

	_, err = emd.NewNetworkSimplex().Solve([]float64{1}, []float64{0.5, 0.5}, cost)
	assert.ErrorIs(t, err, emd.ErrShapeMismatch, "cost shape")
}

// TestNetworkSimplex_MaxPivots bounds an instance that needs three pivots
// from the north-west corner start to reach its optimum of 0.
func TestNetworkSimplex_MaxPivots(t *testing.T) {
	p := fp([]float64{0.25, 0}, []float64{0.25, 5}, []float64{0.5, 10})
	q := fp([]float64{0.5, 10}, []float64{0.25, 5}, []float64{0.25, 0})

	for _, limit := range []int{1, 2} {
		_, err := emd.Distance(p, q, emd.WithSolver(&emd.NetworkSimplex{MaxPivots: limit}))
		assert.ErrorIs(t, err, emd.ErrNumerical, "MaxPivots=%d", limit)
	}

	d, err := emd.Distance(p, q, emd.WithSolver(&emd.NetworkSimplex{MaxPivots: 3}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

// TestCostMatrix checks the Chebyshev ground distance.
func TestCostMatrix(t *testing.T) {
	p := fp([]float64{0.5, 1, 2, 3}, []float64{0.5, 1, 1, 1})
	q := fp([]float64{1, 1.5, 2, 4})

	c, err := emd.CostMatrix(p, q)
	require.NoError(t, err)
	require.Equal(t, 2, c.Rows())
	require.Equal(t, 1, c.Cols())
	v0, _ := c.At(0, 0)
	v1, _ := c.At(1, 0)
	assert.Equal(t, 1.0, v0)
	assert.Equal(t, 3.0, v1)
}

// TestOptions_Panics pins the programmer-error policy.
func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { emd.WithSolver(nil) })
	assert.Panics(t, func() { emd.WithWeightTolerance(-1) })
	assert.Panics(t, func() { emd.WithWeightTolerance(math.NaN()) })
}
