package pdd

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/katalvlaran/pddkit/lattice"
	"github.com/katalvlaran/pddkit/matrix"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// NeighborDistances computes the converged k-nearest periodic neighbour
// distances of every motif point.
//
// The result D is an n×(k+1) matrix; row i holds the k+1 smallest distances
// from motif point i to the periodic point cloud, ascending. Column 0 is the
// self-distance (0) and is dropped by Collapse.
//
// Steps:
//  1. Validate k and the configuration.
//  2. Append shells to the cloud S until |S| ≥ k+1; query D.
//  3. Repeat: append the next shell, rebuild the k-d tree over S, query D'.
//     Compare D and D' on the Decimals grid. The search stops once
//     1+ExtraShells consecutive comparisons are equal (and, with
//     CertifiedRadius, the unseen shells provably lie beyond every k-th
//     distance).
//  4. MaxShells > 0 bounds step 3; hitting it yields ErrNotConverged.
//
// The rounded fixed point is a heuristic. On strongly skewed (non-reduced)
// cells a true neighbour can sit in a shell far beyond the first unchanged
// ones, and the default search then returns distances that are too large.
// For example, with a = (1,0,0), b = (4,1,0), c = (4,4,1) and two atoms the
// default settles on a wrong k = 6 row. Use WithCertifiedRadius for such
// cells, or reduce them first.
//
// Invariant: once S holds every periodic image within the current k-th
// distance of each motif point, farther shells cannot change D.
//
// Complexity: per shell O(|S| log² |S|) to rebuild plus O(n·(k+1)·log |S|) to query.
func NeighborDistances(cfg lattice.Configuration, k int, opts ...Option) (*matrix.Dense, SearchStats, error) {
	o := gatherOptions(opts)
	if k <= 0 {
		return nil, SearchStats{}, ErrBadK
	}
	shells, err := lattice.NewShells(cfg)
	if err != nil {
		return nil, SearchStats{}, err
	}

	var (
		n     = cfg.Len()
		cloud = make([]r3.Vector, 0, n*27)
		next  = func() error {
			if o.MaxShells > 0 && shells.Shell() >= o.MaxShells {
				return fmt.Errorf("%w after %d shells (k=%d)", ErrNotConverged, shells.Shell(), k)
			}
			cloud = append(cloud, shells.Next().Points...)
			return nil
		}
	)

	// Stage 2: minimum population.
	for len(cloud) < k+1 {
		if err = next(); err != nil {
			return nil, SearchStats{}, err
		}
	}
	prev := query(cloud, n, k)

	// Stage 3: fixed point.
	var (
		bound  = certificate{}
		stable = 0
	)
	if o.CertifiedRadius {
		bound = newCertificate(cfg)
	}
	for {
		if err = next(); err != nil {
			return nil, SearchStats{}, err
		}
		cur := query(cloud, n, k)
		if cur.Round(o.Decimals).Equal(prev.Round(o.Decimals)) {
			stable++
		} else {
			stable = 0
		}
		prev = cur

		if stable > o.ExtraShells && (!o.CertifiedRadius || bound.covers(cur, shells.Shell())) {
			break
		}
	}

	stats := SearchStats{Shells: shells.Shell(), Points: len(cloud)}
	o.Logger.Debug("pdd: neighbour search converged",
		"k", k, "motif", n, "shells", stats.Shells, "points", stats.Points)

	return prev, stats, nil
}

// query builds a k-d tree over cloud and returns the (k+1)-NN distance rows
// of the first n points (shell 0, the motif).
func query(cloud []r3.Vector, n, k int) *matrix.Dense {
	pts := make(sites, len(cloud))
	for i, p := range cloud {
		pts[i] = site(p)
	}
	tree := kdtree.New(pts, false) // reorders pts, cloud keeps motif first

	d, _ := matrix.NewDense(n, k+1) // n ≥ 1, k ≥ 1 validated by caller
	row := make([]float64, k+1)
	for i := 0; i < n; i++ {
		keep := kdtree.NewNKeeper(k + 1)
		tree.NearestSet(keep, site(cloud[i]))
		// NearestSet leaves the heap sorted ascending; squared distances.
		for j, c := range keep.Heap {
			row[j] = math.Sqrt(c.Dist)
		}
		_ = d.SetRow(i, row)
	}

	return d
}

// certificate is the geometric stopping rule for CertifiedRadius.
//
// A translation t = i·a + j·b + l·c with max(|i|,|j|,|l|) = s has
// |t| ≥ s·h, where h is the smallest distance between opposite faces of the
// cell. Any image p'+t of a motif point is therefore at least s·h − diam
// away from every motif point p, diam being the largest motif-motif distance.
type certificate struct {
	h, diam float64
}

func newCertificate(cfg lattice.Configuration) certificate {
	c := cfg.Cell
	vol := math.Abs(c.Volume())
	face := max(c[0].Cross(c[1]).Norm(), c[1].Cross(c[2]).Norm(), c[2].Cross(c[0]).Norm())

	diam := 0.0
	for i, p := range cfg.Motif {
		for _, q := range cfg.Motif[i+1:] {
			diam = max(diam, p.Distance(q))
		}
	}

	return certificate{h: vol / face, diam: diam}
}

// covers reports whether shell nextShell and beyond cannot reach inside the
// largest k-th neighbour distance in d.
func (c certificate) covers(d *matrix.Dense, nextShell int) bool {
	worst := 0.0
	d.ForEachRow(func(_ int, row []float64) {
		worst = max(worst, row[len(row)-1])
	})

	return float64(nextShell)*c.h-c.diam > worst
}
