package pdd

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// site is a periodic image stored in the k-d tree.
type site r3.Vector

// Compare satisfies kdtree.Comparable: the signed offset of p from the plane
// through c perpendicular to axis d (0 = x, 1 = y, 2 = z).
func (p site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(site)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		return p.Z - q.Z
	}
}

// Dims satisfies kdtree.Comparable.
func (p site) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p site) Distance(c kdtree.Comparable) float64 {
	return r3.Vector(p).Sub(r3.Vector(c.(site))).Norm2()
}

// sites is the point cloud handed to kdtree.New. Building reorders it.
type sites []site

func (s sites) Index(i int) kdtree.Comparable         { return s[i] }
func (s sites) Len() int                              { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int                { return plane{sites: s, Dim: d}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface { return s[start:end] }

// plane orders sites along one axis for median partitioning.
// MedianOfMedians keeps the tree shape deterministic.
type plane struct {
	kdtree.Dim
	sites
}

func (p plane) Less(i, j int) bool { return p.sites[i].Compare(p.sites[j], p.Dim) < 0 }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Swap(i, j int)      { p.sites[i], p.sites[j] = p.sites[j], p.sites[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}
