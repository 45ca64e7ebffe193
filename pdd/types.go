// Package pdd defines the fingerprint types, options and sentinel errors for
// Pointwise Distance Distributions.
package pdd

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

var (
	// ErrBadK indicates a non-positive neighbour count.
	ErrBadK = errors.New("pdd: k must be > 0")

	// ErrNotConverged indicates that Options.MaxShells was reached before the
	// neighbour distances stopped changing.
	ErrNotConverged = errors.New("pdd: neighbour search did not converge")

	// ErrInvalidPDD indicates a fingerprint violating its invariants
	// (empty, ragged rows, bad weights or unsorted distances).
	ErrInvalidPDD = errors.New("pdd: invalid fingerprint")
)

// Defaults - single source of truth for zero-value behaviour.
const (
	// DefaultDecimals is the number of decimal places distances are rounded to
	// before equality checks (convergence and row grouping).
	DefaultDecimals = 3

	// DefaultExtraShells is how many additional shells must leave the rounded
	// distances unchanged after the first apparent fixed point.
	DefaultExtraShells = 1

	// DefaultMaxShells bounds the expansion; 0 means unbounded.
	DefaultMaxShells = 0

	// DefaultWorkers is the fan-out of ComputeAll.
	DefaultWorkers = 1

	// WeightTolerance is the accepted deviation of Σ weights from 1.
	WeightTolerance = 1e-6
)

const (
	panicDecimalsInvalid    = "pdd: WithDecimals: decimals must be in [0, 15]"
	panicExtraShellsInvalid = "pdd: WithExtraShells: extra shells must be >= 0"
	panicMaxShellsInvalid   = "pdd: WithMaxShells: max shells must be >= 0"
	panicWorkersInvalid     = "pdd: WithWorkers: workers must be >= 1"
)

// Options configures neighbour search and row collapsing.
//
// Fields:
//   - Decimals        - rounding grid for convergence and grouping (default 3).
//   - ExtraShells     - confirmation shells after apparent convergence (default 1).
//   - MaxShells       - hard cap on shells; 0 = unbounded (default).
//   - CertifiedRadius - also require the geometric lower bound of every unseen
//     shell to exceed the current k-th distance (default false). The default
//     rounded fixed point can stop too early on strongly skewed, non-reduced
//     cells and return wrong distances; enable this for such cells.
//   - Workers         - goroutines used by ComputeAll (default 1).
//   - Logger          - debug records per converged search (default: discard).
type Options struct {
	Decimals        int
	ExtraShells     int
	MaxShells       int
	CertifiedRadius bool
	Workers         int
	Logger          *slog.Logger
}

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Decimals:    DefaultDecimals,
		ExtraShells: DefaultExtraShells,
		MaxShells:   DefaultMaxShells,
		Workers:     DefaultWorkers,
		Logger:      slog.New(slog.DiscardHandler),
	}
}

// WithDecimals sets the rounding grid.
func WithDecimals(d int) Option {
	if d < 0 || d > 15 {
		panic(panicDecimalsInvalid)
	}
	return func(o *Options) { o.Decimals = d }
}

// WithExtraShells sets the number of confirmation shells.
func WithExtraShells(n int) Option {
	if n < 0 {
		panic(panicExtraShellsInvalid)
	}
	return func(o *Options) { o.ExtraShells = n }
}

// WithMaxShells caps the number of shells generated; 0 disables the cap.
func WithMaxShells(n int) Option {
	if n < 0 {
		panic(panicMaxShellsInvalid)
	}
	return func(o *Options) { o.MaxShells = n }
}

// WithCertifiedRadius enables the geometric stopping certificate.
func WithCertifiedRadius() Option {
	return func(o *Options) { o.CertifiedRadius = true }
}

// WithWorkers sets the ComputeAll fan-out.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}
	return func(o *Options) { o.Workers = n }
}

// WithLogger routes debug records to l; nil keeps the current logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// gatherOptions applies opts over DefaultOptions.
func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// Row is one distinct neighbour-distance pattern of a fingerprint.
type Row struct {
	// Weight is the fraction of motif points sharing this pattern.
	Weight float64

	// Distances are the k nearest periodic neighbour distances, non-decreasing.
	Distances []float64
}

// PDD is a Pointwise Distance Distribution: weighted rows of k sorted
// neighbour distances, rows in lexicographic order of Distances.
// It is invariant to translations and to reordering of the motif.
type PDD struct {
	Rows []Row
}

// K returns the number of neighbour distances per row (0 for an empty PDD).
func (p PDD) K() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return len(p.Rows[0].Distances)
}

// Len returns the number of distinct rows.
func (p PDD) Len() int {
	return len(p.Rows)
}

// Weights returns the weight column.
func (p PDD) Weights() []float64 {
	w := make([]float64, len(p.Rows))
	for i, r := range p.Rows {
		w[i] = r.Weight
	}

	return w
}

// Equal reports exact equality of rows, weights and distances.
func (p PDD) Equal(o PDD) bool {
	if len(p.Rows) != len(o.Rows) {
		return false
	}
	for i, r := range p.Rows {
		q := o.Rows[i]
		if r.Weight != q.Weight || len(r.Distances) != len(q.Distances) {
			return false
		}
		for j, d := range r.Distances {
			if d != q.Distances[j] {
				return false
			}
		}
	}

	return true
}

// Validate checks the fingerprint invariants:
//  1. at least one row, every row with the same k > 0;
//  2. weights positive and finite, summing to 1 within tol;
//  3. distances finite, non-negative and non-decreasing within a row.
//
// Errors: ErrInvalidPDD wrapped with the violated condition.
// Complexity: O(m·k).
func (p PDD) Validate(tol float64) error {
	k := p.K()
	if len(p.Rows) == 0 || k == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidPDD)
	}
	sum := 0.0
	for i, r := range p.Rows {
		if len(r.Distances) != k {
			return fmt.Errorf("%w: row %d has %d distances, want %d", ErrInvalidPDD, i, len(r.Distances), k)
		}
		if !(r.Weight > 0) || math.IsInf(r.Weight, 0) {
			return fmt.Errorf("%w: row %d weight %g", ErrInvalidPDD, i, r.Weight)
		}
		sum += r.Weight
		for j, d := range r.Distances {
			if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return fmt.Errorf("%w: row %d distance %d is %g", ErrInvalidPDD, i, j, d)
			}
			if j > 0 && d < r.Distances[j-1] {
				return fmt.Errorf("%w: row %d distances not sorted", ErrInvalidPDD, i)
			}
		}
	}
	if math.Abs(sum-1) > tol {
		return fmt.Errorf("%w: weights sum to %g", ErrInvalidPDD, sum)
	}

	return nil
}

// SearchStats describes one converged neighbour search.
type SearchStats struct {
	// Shells is the number of shells consumed (shell 0 included).
	Shells int

	// Points is the size of the final point cloud.
	Points int
}
