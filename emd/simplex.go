package emd

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pddkit/matrix"
)

// NetworkSimplex solves the transportation problem with the transportation
// simplex (the network simplex specialised to complete bipartite graphs).
//
// Representation:
//
//	nodes 0..m-1   supply rows
//	nodes m..m+n-1 demand columns
//	basis          m+n-1 cells forming a spanning tree of the bipartite graph
//
// Algorithm Outline:
//  1. North-west corner rule builds an initial feasible basis. Each step
//     advances exactly one of row/column, so the basis is always a tree even
//     when allocations are zero (degenerate).
//  2. Potentials: u[0]=0, then u[i]+v[j] = cost[i][j] along tree edges.
//  3. Pricing (Bland): the first cell in row-major order with reduced cost
//     cost[i][j]−u[i]−v[j] < −ε enters. None ⇒ optimal.
//  4. The entering cell closes a unique cycle with the tree path from
//     column j back to row i. Cells alternate −/+ along the path; θ is the
//     smallest flow among − cells and the first such cell (row-major) leaves.
//  5. Shift θ around the cycle, swap entering/leaving, go to 2.
//
// Bland's rule prevents cycling on degenerate pivots. MaxPivots still bounds
// the loop so that a numerical defect surfaces as ErrNumerical.
//
// Complexity: O(m+n) per potential/cycle update, O(m·n) per pricing pass.
// The zero value is ready to use.
type NetworkSimplex struct {
	// Epsilon is the relative reduced-cost tolerance (default DefaultEpsilon).
	Epsilon float64

	// MaxPivots bounds pivots; 0 ⇒ 50·m·n + 1000. Needing more is ErrNumerical.
	MaxPivots int
}

// NewNetworkSimplex returns a solver with documented defaults.
func NewNetworkSimplex() *NetworkSimplex {
	return &NetworkSimplex{Epsilon: DefaultEpsilon, MaxPivots: DefaultMaxPivots}
}

// cell is one basic variable.
type cell struct {
	i, j int
	flow float64
}

// Solve implements Solver.
func (s *NetworkSimplex) Solve(supply, demand []float64, cost *matrix.Dense) (float64, error) {
	plan, err := s.solve(supply, demand, cost)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, c := range plan {
		v, _ := cost.At(c.i, c.j)
		total += c.flow * v
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: objective is %g", ErrNumerical, total)
	}

	return total, nil
}

// solve returns the optimal basic cells.
func (s *NetworkSimplex) solve(supply, demand []float64, cost *matrix.Dense) ([]cell, error) {
	if cost == nil {
		return nil, fmt.Errorf("%w: nil cost matrix", ErrNumerical)
	}
	m, n := len(supply), len(demand)
	if m == 0 || n == 0 || cost.Rows() != m || cost.Cols() != n {
		return nil, fmt.Errorf("%w: cost is %dx%d for %d supplies and %d demands",
			ErrShapeMismatch, cost.Rows(), cost.Cols(), m, n)
	}

	eps := s.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	maxPivots := s.MaxPivots
	if maxPivots <= 0 {
		maxPivots = 50*m*n + 1000
	}

	c := make([]float64, m*n) // row-major copy for hot loops
	scale := 1.0
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v, _ := cost.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: cost[%d][%d] is %g", ErrNumerical, i, j, v)
			}
			c[i*n+j] = v
			scale = max(scale, math.Abs(v))
		}
	}
	tol := eps * scale

	basis := northWestCorner(supply, demand)
	at := make([]int, m*n) // cell id → position in basis, −1 if non-basic
	for k := range at {
		at[k] = -1
	}
	for b, bc := range basis {
		at[bc.i*n+bc.j] = b
	}

	t := newTree(m, n)
	for pivot := 0; ; pivot++ {
		t.load(basis)
		if !t.potentials(basis, c) {
			return nil, fmt.Errorf("%w: basis is not a spanning tree", ErrNumerical)
		}

		// Pricing.
		enter := -1
		for k := 0; k < m*n && enter < 0; k++ {
			if at[k] >= 0 {
				continue
			}
			i, j := k/n, k%n
			if c[k]-t.u[i]-t.v[j] < -tol {
				enter = k
			}
		}
		if enter < 0 {
			break
		}
		if pivot == maxPivots {
			return nil, fmt.Errorf("%w: no optimum after %d pivots", ErrNumerical, maxPivots)
		}
		ei, ej := enter/n, enter%n

		// Cycle: tree path from row ei to column ej; even positions are "−".
		path := t.path(basis, ei, m+ej)
		if len(path) == 0 || len(path)%2 == 0 {
			return nil, fmt.Errorf("%w: no alternating cycle for cell (%d,%d)", ErrNumerical, ei, ej)
		}
		leave := -1
		for p := 0; p < len(path); p += 2 {
			b := path[p]
			if leave < 0 || basis[b].flow < basis[leave].flow ||
				(basis[b].flow == basis[leave].flow && key(basis[b], n) < key(basis[leave], n)) {
				leave = b
			}
		}
		theta := basis[leave].flow
		for p, b := range path {
			if p%2 == 0 {
				basis[b].flow -= theta
			} else {
				basis[b].flow += theta
			}
		}

		at[key(basis[leave], n)] = -1
		basis[leave] = cell{i: ei, j: ej, flow: theta}
		at[enter] = leave
	}

	if err := checkMarginals(basis, supply, demand, 1e-9); err != nil {
		return nil, err
	}

	return basis, nil
}

// key is the row-major variable index of a cell.
func key(c cell, n int) int {
	return c.i*n + c.j
}

// northWestCorner builds the staircase initial basis with exactly m+n-1 cells.
func northWestCorner(supply, demand []float64) []cell {
	m, n := len(supply), len(demand)
	ra := append([]float64(nil), supply...)
	rb := append([]float64(nil), demand...)
	basis := make([]cell, 0, m+n-1)

	i, j := 0, 0
	for i < m && j < n {
		x := min(ra[i], rb[j])
		basis = append(basis, cell{i: i, j: j, flow: x})
		ra[i] -= x
		rb[j] -= x
		switch {
		case i == m-1:
			j++
		case j == n-1:
			i++
		case ra[i] < rb[j]:
			i++
		default:
			j++
		}
	}

	return basis
}

// checkMarginals verifies row and column sums of a plan.
func checkMarginals(basis []cell, supply, demand []float64, tol float64) error {
	rows := make([]float64, len(supply))
	cols := make([]float64, len(demand))
	for _, c := range basis {
		if c.flow < -tol {
			return fmt.Errorf("%w: negative flow %g at (%d,%d)", ErrNumerical, c.flow, c.i, c.j)
		}
		rows[c.i] += c.flow
		cols[c.j] += c.flow
	}
	for i, v := range rows {
		if math.Abs(v-supply[i]) > tol {
			return fmt.Errorf("%w: row %d ships %g, supply %g", ErrNumerical, i, v, supply[i])
		}
	}
	for j, v := range cols {
		if math.Abs(v-demand[j]) > tol {
			return fmt.Errorf("%w: column %d receives %g, demand %g", ErrNumerical, j, v, demand[j])
		}
	}

	return nil
}

// tree holds adjacency and potentials of the current basis.
type tree struct {
	m, n   int
	adj    [][]int // node → basis positions
	u, v   []float64
	seen   []bool
	parent []int // node → basis position used to reach it
	queue  []int
}

func newTree(m, n int) *tree {
	return &tree{
		m: m, n: n,
		adj:    make([][]int, m+n),
		u:      make([]float64, m),
		v:      make([]float64, n),
		seen:   make([]bool, m+n),
		parent: make([]int, m+n),
		queue:  make([]int, 0, m+n),
	}
}

// load rebuilds adjacency lists for basis.
func (t *tree) load(basis []cell) {
	for k := range t.adj {
		t.adj[k] = t.adj[k][:0]
	}
	for b, c := range basis {
		t.adj[c.i] = append(t.adj[c.i], b)
		t.adj[t.m+c.j] = append(t.adj[t.m+c.j], b)
	}
}

// other returns the endpoint of basis cell b opposite to node.
func (t *tree) other(c cell, node int) int {
	if node < t.m {
		return t.m + c.j
	}
	return c.i
}

// bfs explores the tree from root, filling parent; false if some node is unreachable.
func (t *tree) bfs(basis []cell, root int, visit func(node, via int)) bool {
	for k := range t.seen {
		t.seen[k] = false
	}
	t.queue = append(t.queue[:0], root)
	t.seen[root] = true
	t.parent[root] = -1
	reached := 1
	for h := 0; h < len(t.queue); h++ {
		node := t.queue[h]
		for _, b := range t.adj[node] {
			next := t.other(basis[b], node)
			if t.seen[next] {
				continue
			}
			t.seen[next] = true
			t.parent[next] = b
			if visit != nil {
				visit(next, b)
			}
			t.queue = append(t.queue, next)
			reached++
		}
	}

	return reached == t.m+t.n
}

// potentials solves u[i]+v[j] = c[i][j] over basic cells with u[0] = 0.
func (t *tree) potentials(basis []cell, c []float64) bool {
	t.u[0] = 0
	return t.bfs(basis, 0, func(node, via int) {
		bc := basis[via]
		if node < t.m {
			t.u[node] = c[bc.i*t.n+bc.j] - t.v[bc.j]
		} else {
			t.v[node-t.m] = c[bc.i*t.n+bc.j] - t.u[bc.i]
		}
	})
}

// path returns basis positions on the tree path from node from to node to,
// ordered starting at from.
func (t *tree) path(basis []cell, from, to int) []int {
	t.bfs(basis, to, nil)
	if !t.seen[from] {
		return nil
	}
	var out []int
	for node := from; node != to; {
		b := t.parent[node]
		out = append(out, b)
		node = t.other(basis[b], node)
	}

	return out
}
