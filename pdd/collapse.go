package pdd

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/katalvlaran/pddkit/matrix"
)

// Collapse turns an n×(k+1) neighbour-distance matrix into a fingerprint.
//
// Steps:
//  1. Drop column 0 (self-distance).
//  2. Round every remaining distance to `decimals` places.
//  3. Group motif points whose rounded rows are identical.
//  4. Emit one Row per group with Weight = count / n.
//  5. Order rows lexicographically by Distances.
//
// Errors:
//   - matrix.ErrNilMatrix         - d is nil.
//   - matrix.ErrInvalidDimensions - d has fewer than 2 columns (k would be 0).
//
// Complexity: O(n·k) grouping plus O(m log m · k) sorting of the m distinct rows.
func Collapse(d *matrix.Dense, decimals int) (PDD, error) {
	if d == nil {
		return PDD{}, matrix.ErrNilMatrix
	}
	if d.Cols() < 2 {
		return PDD{}, fmt.Errorf("pdd: collapse needs k+1 ≥ 2 columns, got %d: %w", d.Cols(), matrix.ErrInvalidDimensions)
	}

	var (
		n      = d.Rows()
		groups = make(map[string]int, n) // row key → index into rows
		rows   []Row
		key    strings.Builder
	)
	d.ForEachRow(func(_ int, full []float64) {
		dist := make([]float64, len(full)-1)
		key.Reset()
		for j, v := range full[1:] {
			dist[j] = matrix.RoundTo(v, decimals)
			fmt.Fprintf(&key, "%x,", math.Float64bits(dist[j]))
		}
		if at, ok := groups[key.String()]; ok {
			rows[at].Weight++
			return
		}
		groups[key.String()] = len(rows)
		rows = append(rows, Row{Weight: 1, Distances: dist})
	})

	for i := range rows {
		rows[i].Weight /= float64(n)
	}
	slices.SortFunc(rows, func(a, b Row) int {
		return slices.Compare(a.Distances, b.Distances)
	})

	return PDD{Rows: rows}, nil
}
