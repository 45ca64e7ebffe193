package dedup

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/pddkit/matrix"
)

// Merge is one step of a single-linkage dendrogram.
//
// Leaves are numbered 0..n−1; the cluster created by the t-th merge gets
// id n+t. Left < Right always holds.
type Merge struct {
	Left, Right int
	Distance    float64
	Size        int
}

// pair is a candidate dendrogram edge.
type pair struct {
	i, j int
	d    float64
}

// Linkage builds the single-linkage hierarchy of a pairwise distance matrix
// (as returned by Pairwise). It is a read-only diagnostic; Filter does not
// depend on it.
//
// Steps:
//  1. Validate: square, finite, zero diagonal, symmetric (ErrNotSquare, ErrAsymmetric).
//  2. Collect the n(n−1)/2 pairs in row-major order and stable-sort by distance.
//  3. Kruskal with union-find: every edge joining two components emits a
//     Merge of their current cluster ids.
//
// Distances are non-decreasing along the result, which holds n−1 merges
// (none for n = 1).
//
// Complexity: O(n² log n). Memory: O(n²).
func Linkage(dist *matrix.Dense) ([]Merge, error) {
	if dist == nil || dist.Rows() != dist.Cols() {
		return nil, ErrNotSquare
	}
	n := dist.Rows()

	pairs := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		if d, _ := dist.At(i, i); d != 0 {
			return nil, fmt.Errorf("%w: d[%d][%d] = %g", ErrAsymmetric, i, i, d)
		}
		for j := i + 1; j < n; j++ {
			a, _ := dist.At(i, j)
			b, _ := dist.At(j, i)
			if a != b || math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
				return nil, fmt.Errorf("%w: d[%d][%d] = %g, d[%d][%d] = %g", ErrAsymmetric, i, j, a, j, i, b)
			}
			pairs = append(pairs, pair{i: i, j: j, d: a})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].d < pairs[b].d })

	parent := make([]int, n)
	rank := make([]int, n)
	cluster := make([]int, n) // root → current cluster id
	size := make([]int, n)    // root → member count
	for v := range parent {
		parent[v] = v
		cluster[v] = v
		size[v] = 1
	}
	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}

	merges := make([]Merge, 0, max(n-1, 0))
	for _, p := range pairs {
		ru, rv := find(p.i), find(p.j)
		if ru == rv {
			continue
		}
		left, right := cluster[ru], cluster[rv]
		if left > right {
			left, right = right, left
		}
		total := size[ru] + size[rv]
		merges = append(merges, Merge{Left: left, Right: right, Distance: p.d, Size: total})

		if rank[ru] < rank[rv] {
			ru, rv = rv, ru
		}
		parent[rv] = ru
		if rank[ru] == rank[rv] {
			rank[ru]++
		}
		cluster[ru] = n + len(merges) - 1
		size[ru] = total

		if len(merges) == n-1 {
			break
		}
	}

	return merges, nil
}

// Cut assigns flat cluster labels to the n leaves by applying every merge
// with Distance ≤ threshold. Labels are numbered 0,1,… in order of each
// cluster's lowest leaf, so leaf 0 is always in cluster 0.
//
// With threshold equal to a dedup tolerance, the clusters are the connected
// components of the "near-duplicate" graph, which Filter's greedy pass may
// split further.
//
// Complexity: O(n α(n)).
func Cut(merges []Merge, n int, threshold float64) []int {
	parent := make([]int, n+len(merges))
	for v := range parent {
		parent[v] = v
	}
	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	for t, m := range merges {
		if m.Distance > threshold {
			break
		}
		id := n + t
		parent[find(m.Left)] = id
		parent[find(m.Right)] = id
	}

	labels := make([]int, n)
	seen := make(map[int]int, n)
	for v := 0; v < n; v++ {
		r := find(v)
		l, ok := seen[r]
		if !ok {
			l = len(seen)
			seen[r] = l
		}
		labels[v] = l
	}

	return labels
}
