package lattice_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/katalvlaran/pddkit/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfiguration_Validate covers every DegenerateInput sentinel.
func TestConfiguration_Validate(t *testing.T) {
	cell := lattice.CubicCell(2)

	_, err := lattice.NewConfiguration(nil, cell)
	assert.ErrorIs(t, err, lattice.ErrEmptyMotif, "empty motif must be rejected")

	_, err = lattice.NewConfiguration([]r3.Vector{{X: math.NaN()}}, cell)
	assert.ErrorIs(t, err, lattice.ErrNaNInf, "NaN position must be rejected")

	flat := lattice.Cell{{X: 1}, {Y: 1}, {X: 1, Y: 1}}
	_, err = lattice.NewConfiguration([]r3.Vector{{}}, flat)
	assert.ErrorIs(t, err, lattice.ErrSingularCell, "coplanar cell vectors must be rejected")

	inf := lattice.Cell{{X: math.Inf(1)}, {Y: 1}, {Z: 1}}
	assert.ErrorIs(t, inf.Validate(), lattice.ErrNaNInf)

	cfg, err := lattice.NewConfiguration([]r3.Vector{{}, {X: 1}}, cell)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Len())
}

// TestNewConfiguration_Copies ensures the caller's slice is not aliased.
func TestNewConfiguration_Copies(t *testing.T) {
	motif := []r3.Vector{{X: 0.5}}
	cfg, err := lattice.NewConfiguration(motif, lattice.CubicCell(1))
	require.NoError(t, err)

	motif[0].X = 0.9
	assert.Equal(t, 0.5, cfg.Motif[0].X)
}

// TestCell_VolumeAndTranslate checks a skewed (monoclinic) cell.
func TestCell_VolumeAndTranslate(t *testing.T) {
	c := lattice.Cell{{X: 2}, {X: 1, Y: 3}, {Z: 4}}
	assert.InDelta(t, 24.0, c.Volume(), 1e-12)

	got := c.Translate(1, -1, 2)
	assert.Equal(t, r3.Vector{X: 1, Y: -3, Z: 8}, got)
}

// TestPermuted validates the permutation contract.
func TestPermuted(t *testing.T) {
	cfg := lattice.Configuration{
		Motif: []r3.Vector{{X: 0}, {X: 1}, {X: 2}},
		Cell:  lattice.CubicCell(3),
	}

	p, err := cfg.Permuted([]int{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []r3.Vector{{X: 2}, {X: 0}, {X: 1}}, p.Motif)

	_, err = cfg.Permuted([]int{0, 0, 1})
	assert.ErrorIs(t, err, lattice.ErrBadPermutation)
	_, err = cfg.Permuted([]int{0, 1})
	assert.ErrorIs(t, err, lattice.ErrBadPermutation)
	_, err = cfg.Permuted([]int{0, 1, 3})
	assert.ErrorIs(t, err, lattice.ErrBadPermutation)
}

// TestTranslated shifts every point and keeps the cell.
func TestTranslated(t *testing.T) {
	cfg := lattice.Configuration{Motif: []r3.Vector{{X: 1}}, Cell: lattice.CubicCell(2)}
	moved := cfg.Translated(r3.Vector{X: 0.5, Y: -1})

	assert.Equal(t, r3.Vector{X: 1.5, Y: -1}, moved.Motif[0])
	assert.Equal(t, cfg.Cell, moved.Cell)
	assert.Equal(t, r3.Vector{X: 1}, cfg.Motif[0], "receiver must not change")
}

// TestShellSize pins the closed form against explicit counts.
func TestShellSize(t *testing.T) {
	assert.Equal(t, 3, lattice.ShellSize(3, 0))
	assert.Equal(t, 26, lattice.ShellSize(1, 1))
	assert.Equal(t, 98*2, lattice.ShellSize(2, 2))
	assert.Equal(t, 218, lattice.ShellSize(1, 3))
}

// TestShells_Sequence walks the first shells and checks sizes, membership and
// the Chebyshev radius of every emitted translation.
func TestShells_Sequence(t *testing.T) {
	cfg := lattice.Configuration{
		Motif: []r3.Vector{{X: 0.1, Y: 0.2, Z: 0.3}, {X: 0.6, Y: 0.5, Z: 0.4}},
		Cell:  lattice.CubicCell(1),
	}
	sh, err := lattice.NewShells(cfg)
	require.NoError(t, err)

	seen := make(map[[3]int]bool)
	for s := 0; s < 4; s++ {
		require.Equal(t, s, sh.Shell())
		b := sh.Next()
		require.Equal(t, s, b.Shell)
		require.Len(t, b.Points, lattice.ShellSize(cfg.Len(), s))

		for idx := 0; idx < len(b.Points); idx += cfg.Len() {
			// The first motif point identifies the translation of this block.
			d := b.Points[idx].Sub(cfg.Motif[0])
			key := [3]int{int(math.Round(d.X)), int(math.Round(d.Y)), int(math.Round(d.Z))}
			r := max(absInt(key[0]), absInt(key[1]), absInt(key[2]))
			assert.Equal(t, s, r, "translation %v emitted in shell %d", key, s)
			assert.False(t, seen[key], "translation %v revisited", key)
			seen[key] = true

			// The second motif point carries the same translation.
			assert.InDelta(t, 0, b.Points[idx+1].Sub(cfg.Motif[1]).Sub(d).Norm(), 1e-12)
		}
	}
	// Every translation with radius ≤ 3 was produced exactly once.
	assert.Len(t, seen, 7*7*7)
}

// TestShells_Shell0IsMotif checks the untranslated batch and restartability.
func TestShells_Shell0IsMotif(t *testing.T) {
	cfg := lattice.Configuration{
		Motif: []r3.Vector{{X: 0.25}, {Y: 0.75}},
		Cell:  lattice.Cell{{X: 1}, {X: 0.5, Y: 1}, {Z: 2}},
	}
	sh, err := lattice.NewShells(cfg)
	require.NoError(t, err)

	first := sh.Next()
	assert.Equal(t, cfg.Motif, first.Points)
	second := sh.Next()

	sh.Reset()
	assert.Equal(t, first, sh.Next())
	assert.Equal(t, second, sh.Next())
}

// TestNewShells_Rejects propagates validation errors.
func TestNewShells_Rejects(t *testing.T) {
	_, err := lattice.NewShells(lattice.Configuration{Cell: lattice.CubicCell(1)})
	assert.ErrorIs(t, err, lattice.ErrEmptyMotif)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
