// Package lattice defines periodic atomic configurations and the shell-by-shell
// expansion of their periodic images.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Sentinel errors. All are DegenerateInput conditions from the caller's point
// of view: the configuration cannot be fingerprinted.
var (
	// ErrEmptyMotif indicates a configuration without any atom.
	ErrEmptyMotif = errors.New("lattice: motif must contain at least one point")

	// ErrSingularCell indicates lattice vectors that do not span 3D space
	// (zero or numerically zero cell volume).
	ErrSingularCell = errors.New("lattice: cell vectors are linearly dependent")

	// ErrNaNInf indicates a NaN or ±Inf coordinate in the motif or the cell.
	ErrNaNInf = errors.New("lattice: NaN or Inf coordinate")

	// ErrBadPermutation indicates an order slice that is not a permutation of 0..n-1.
	ErrBadPermutation = errors.New("lattice: order is not a permutation")
)

// volumeTol is the relative tolerance on |det(cell)| / (|a|·|b|·|c|)
// below which the cell is considered singular.
const volumeTol = 1e-12

// Cell holds the three lattice vectors a, b, c (rows of the 3×3 basis).
// Vectors are general: no orthogonality is assumed.
type Cell [3]r3.Vector

// CubicCell returns the simple cubic cell with edge length a.
func CubicCell(a float64) Cell {
	return Cell{{X: a}, {Y: a}, {Z: a}}
}

// Volume returns the signed volume a·(b×c).
// Complexity: O(1).
func (c Cell) Volume() float64 {
	return c[0].Dot(c[1].Cross(c[2]))
}

// Translate returns the lattice translation i·a + j·b + l·c.
// Complexity: O(1).
func (c Cell) Translate(i, j, l int) r3.Vector {
	return c[0].Mul(float64(i)).Add(c[1].Mul(float64(j))).Add(c[2].Mul(float64(l)))
}

// Validate checks that every component is finite and that the cell spans 3D.
//
// Errors:
//   - ErrNaNInf       - any component is NaN or ±Inf.
//   - ErrSingularCell - relative volume below volumeTol.
//
// Complexity: O(1).
func (c Cell) Validate() error {
	for i, v := range c {
		if !finite(v) {
			return fmt.Errorf("lattice: cell vector %d: %w", i, ErrNaNInf)
		}
	}
	scale := c[0].Norm() * c[1].Norm() * c[2].Norm()
	if scale == 0 || math.Abs(c.Volume())/scale < volumeTol {
		return ErrSingularCell
	}

	return nil
}

// Configuration is one periodic atomic configuration: an ordered motif of
// Cartesian positions inside a cell that repeats in all three directions.
// The core treats it as read-only.
type Configuration struct {
	// Motif holds the atomic positions of one periodic repeat unit.
	Motif []r3.Vector

	// Cell holds the lattice vectors.
	Cell Cell
}

// NewConfiguration copies motif and validates the result.
//
// Errors: see Configuration.Validate.
// Complexity: O(n).
func NewConfiguration(motif []r3.Vector, cell Cell) (Configuration, error) {
	cfg := Configuration{Motif: append([]r3.Vector(nil), motif...), Cell: cell}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}

	return cfg, nil
}

// Len returns the motif size.
func (cfg Configuration) Len() int {
	return len(cfg.Motif)
}

// Validate checks the configuration can be fingerprinted.
//
// Errors:
//   - ErrEmptyMotif   - len(Motif) == 0.
//   - ErrNaNInf       - a non-finite position or cell component.
//   - ErrSingularCell - the cell does not span 3D.
//
// Complexity: O(n).
func (cfg Configuration) Validate() error {
	if len(cfg.Motif) == 0 {
		return ErrEmptyMotif
	}
	for i, p := range cfg.Motif {
		if !finite(p) {
			return fmt.Errorf("lattice: motif point %d: %w", i, ErrNaNInf)
		}
	}

	return cfg.Cell.Validate()
}

// Translated returns a copy with every motif point shifted by v.
// Complexity: O(n).
func (cfg Configuration) Translated(v r3.Vector) Configuration {
	out := Configuration{Motif: make([]r3.Vector, len(cfg.Motif)), Cell: cfg.Cell}
	for i, p := range cfg.Motif {
		out.Motif[i] = p.Add(v)
	}

	return out
}

// Permuted returns a copy whose i-th motif point is cfg.Motif[order[i]].
//
// Errors:
//   - ErrBadPermutation - len(order) != n, an index out of range, or a repeat.
//
// Complexity: O(n).
func (cfg Configuration) Permuted(order []int) (Configuration, error) {
	n := len(cfg.Motif)
	if len(order) != n {
		return Configuration{}, ErrBadPermutation
	}
	seen := make([]bool, n)
	out := Configuration{Motif: make([]r3.Vector, n), Cell: cfg.Cell}
	for i, src := range order {
		if src < 0 || src >= n || seen[src] {
			return Configuration{}, ErrBadPermutation
		}
		seen[src] = true
		out.Motif[i] = cfg.Motif[src]
	}

	return out, nil
}

// PointBatch holds the periodic images generated at one shell index.
// It is consumed immediately by the neighbour search.
type PointBatch struct {
	// Shell is the Chebyshev radius of the integer translations in this batch.
	Shell int

	// Points are the translated motif points, motif order inside each translation.
	Points []r3.Vector
}

// finite reports whether all components of v are finite.
func finite(v r3.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
