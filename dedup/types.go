package dedup

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/pddkit/emd"
	"github.com/katalvlaran/pddkit/lattice"
	"github.com/katalvlaran/pddkit/pdd"
)

var (
	// ErrNegativeTolerance indicates a negative or NaN dedup tolerance.
	ErrNegativeTolerance = errors.New("dedup: tolerance must be a non-negative number")

	// ErrEmptyInput indicates that a distance matrix was requested for zero fingerprints.
	ErrEmptyInput = errors.New("dedup: no fingerprints")

	// ErrNotSquare indicates a distance matrix that is not n×n.
	ErrNotSquare = errors.New("dedup: distance matrix is not square")

	// ErrAsymmetric indicates a distance matrix violating d[i][j] = d[j][i]
	// or with a non-zero diagonal.
	ErrAsymmetric = errors.New("dedup: distance matrix is not a symmetric dissimilarity")
)

// DefaultWorkers is the pairwise fan-out.
const DefaultWorkers = 1

const panicWorkersInvalid = "dedup: WithWorkers: workers must be >= 1"

// DistanceHook observes every computed pairwise distance (i < j), in index
// order. It must not retain or mutate anything owned by the filter.
type DistanceHook func(i, j int, d float64)

// Options configures Filter, FilterFingerprints and Pairwise.
//
// Fields:
//   - PDD        - forwarded to pdd.ComputeAll.
//   - EMD        - forwarded to emd.Distance.
//   - Workers    - goroutines for fingerprints and pairwise distances (default 1).
//   - Logger     - debug record per removal (default: discard).
//   - Metrics    - optional Prometheus collectors (nil disables).
//   - OnDistance - optional read-only hook (nil disables).
type Options struct {
	PDD        []pdd.Option
	EMD        []emd.Option
	Workers    int
	Logger     *slog.Logger
	Metrics    *Metrics
	OnDistance DistanceHook
}

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Workers: DefaultWorkers,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// WithPDDOptions appends fingerprint options.
func WithPDDOptions(opts ...pdd.Option) Option {
	return func(o *Options) { o.PDD = append(o.PDD, opts...) }
}

// WithEMDOptions appends distance options.
func WithEMDOptions(opts ...emd.Option) Option {
	return func(o *Options) { o.EMD = append(o.EMD, opts...) }
}

// WithWorkers sets the fan-out of fingerprinting and pairwise distances.
// Removal decisions stay serialized in index order regardless.
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

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithDistanceHook installs a read-only observer of computed distances.
func WithDistanceHook(h DistanceHook) Option {
	return func(o *Options) { o.OnDistance = h }
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// Result is the outcome of Filter.
type Result struct {
	// Kept are the surviving configurations in original relative order.
	Kept []lattice.Configuration

	// Indices are the original positions of Kept, ascending.
	Indices []int
}
