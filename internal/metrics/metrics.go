// Package metrics provides Prometheus metrics for the judgment generator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all judgment generator metrics.
	MetricsNamespace = "judgments"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	RunDurationSeconds prometheus.Histogram

	JudgmentsGenerated   prometheus.Counter
	RecordsSkipped       *prometheus.CounterVec
	CTRFallbacks         prometheus.Counter
	ZeroExpectationPairs prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "runs_total",
				Help:      "Total number of pipeline runs",
			},
			[]string{"status"},
		),
		RunDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of pipeline runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
		),
		JudgmentsGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "judgments_generated_total",
				Help:      "Total number of judgments generated across runs",
			},
		),
		RecordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "records_skipped_total",
				Help:      "Malformed records skipped during aggregation",
			},
			[]string{"kind"},
		),
		CTRFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "ctr_fallbacks_total",
				Help:      "Exposures at positions missing from the CTR table",
			},
		),
		ZeroExpectationPairs: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "zero_expectation_pairs_total",
				Help:      "Pairs that hit the zero-expectation edge case",
			},
		),
	}
}

// Skip record kinds.
const (
	SkipKindResult = "result"
	SkipKindEvent  = "event"
)
