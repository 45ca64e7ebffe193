package lattice

import "github.com/golang/geo/r3"

// Shells is a lazy, infinite, strictly-forward sequence of
// periodic image batches of one motif.
//
// Batch s contains the motif translated by every integer triple (i,j,l) with
// max(|i|,|j|,|l|) == s, mapped through the cell vectors:
//
//	p + i·a + j·b + l·c
//
// Shell 0 is the untranslated motif. For s > 0 the batch has
// n·((2s+1)³ − (2s−1)³) points. Translations are visited in lexicographic
// (i,j,l) order, motif order inside each translation, so the sequence is fully
// deterministic. A Shells value is not safe for concurrent use.
type Shells struct {
	motif []r3.Vector
	cell  Cell
	next  int
}

// NewShells returns a sequence positioned at shell 0.
// The configuration is not copied; callers must not mutate it while iterating.
//
// Errors: see Configuration.Validate.
func NewShells(cfg Configuration) (*Shells, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Shells{motif: cfg.Motif, cell: cfg.Cell}, nil
}

// Shell returns the index of the batch the next call to Next will produce.
func (s *Shells) Shell() int {
	return s.next
}

// Reset rewinds the sequence to shell 0.
func (s *Shells) Reset() {
	s.next = 0
}

// Next produces the batch at the current shell index and advances.
// The sequence never ends; the caller decides when to stop.
//
// Complexity: O(s³) translations enumerated, O(ShellSize(n, s)) points emitted.
func (s *Shells) Next() PointBatch {
	shell := s.next
	s.next++

	batch := PointBatch{Shell: shell, Points: make([]r3.Vector, 0, ShellSize(len(s.motif), shell))}
	for i := -shell; i <= shell; i++ {
		for j := -shell; j <= shell; j++ {
			for l := -shell; l <= shell; l++ {
				if chebyshev(i, j, l) != shell {
					continue
				}
				t := s.cell.Translate(i, j, l)
				for _, p := range s.motif {
					batch.Points = append(batch.Points, p.Add(t))
				}
			}
		}
	}

	return batch
}

// ShellSize returns the number of points in shell s of a motif of size n.
func ShellSize(n, s int) int {
	if s <= 0 {
		return n
	}
	outer, inner := 2*s+1, 2*s-1

	return n * (outer*outer*outer - inner*inner*inner)
}

// chebyshev returns max(|i|,|j|,|l|).
func chebyshev(i, j, l int) int {
	return max(abs(i), abs(j), abs(l))
}

// abs returns the absolute value of an int.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
