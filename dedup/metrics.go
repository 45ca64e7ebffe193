package dedup

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the duplicate filter.
type Metrics struct {
	// Fingerprint batch latency (all PDDs of one Filter call)
	FingerprintLatency prometheus.Histogram

	// Single EMD latency
	DistanceLatency prometheus.Histogram

	// Pairwise comparisons performed
	Comparisons prometheus.Counter

	// Configurations removed as near-duplicates
	Removed prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FingerprintLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pddkit_dedup_fingerprint_duration_seconds",
			Help:    "Duration of fingerprinting all configurations of one filter call",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
		}),

		DistanceLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pddkit_dedup_emd_duration_seconds",
			Help:    "Duration of one earth mover's distance computation",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),

		Comparisons: f.NewCounter(prometheus.CounterOpts{
			Name: "pddkit_dedup_comparisons_total",
			Help: "Total pairwise fingerprint comparisons",
		}),

		Removed: f.NewCounter(prometheus.CounterOpts{
			Name: "pddkit_dedup_removed_total",
			Help: "Total configurations removed as near-duplicates",
		}),
	}
}

// ObserveFingerprints records the duration of one fingerprint batch.
func (m *Metrics) ObserveFingerprints(d time.Duration) {
	if m != nil {
		m.FingerprintLatency.Observe(d.Seconds())
	}
}

// ObserveDistance records one EMD computation.
func (m *Metrics) ObserveDistance(d time.Duration) {
	if m != nil {
		m.DistanceLatency.Observe(d.Seconds())
		m.Comparisons.Inc()
	}
}

// IncrementRemoved records one removal.
func (m *Metrics) IncrementRemoved() {
	if m != nil {
		m.Removed.Inc()
	}
}
