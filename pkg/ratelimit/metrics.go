package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for admission decisions.
type Metrics struct {
	decisions       *prometheus.CounterVec
	permitsGranted  *prometheus.CounterVec
	acquireDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance registered against reg. A nil reg
// uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posi_ratelimit_decisions_total",
				Help: "Total number of admission decisions",
			},
			[]string{"algorithm", "outcome"},
		),

		permitsGranted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posi_ratelimit_permits_granted_total",
				Help: "Total weight of permits granted",
			},
			[]string{"algorithm"},
		),

		acquireDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "posi_ratelimit_acquire_duration_seconds",
				Help:    "Duration of TryAcquire calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"algorithm"},
		),
	}
}

// RecordDecision records one TryAcquire outcome.
func (m *Metrics) RecordDecision(algorithm Algorithm, permits int, admitted bool) {
	outcome := "admitted"
	if !admitted {
		outcome = "rejected"
	}
	m.decisions.WithLabelValues(string(algorithm), outcome).Inc()
	if admitted {
		m.permitsGranted.WithLabelValues(string(algorithm)).Add(float64(permits))
	}
}

// RecordAcquireDuration records how long a TryAcquire call took.
func (m *Metrics) RecordAcquireDuration(algorithm Algorithm, seconds float64) {
	m.acquireDuration.WithLabelValues(string(algorithm)).Observe(seconds)
}
