package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Saga outcome labels recorded by the persistence coordinator.
const (
	OutcomeCommitted          = "committed"
	OutcomeRolledBack         = "rolled_back"
	OutcomeCompensated        = "compensated"
	OutcomeCompensationFailed = "compensation_failed"
)

// SagaMetrics records outcomes and latency of quotation persistence runs.
type SagaMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewSagaMetrics registers the saga metrics on the provided registerer.
func NewSagaMetrics(reg prometheus.Registerer) *SagaMetrics {
	if reg == nil {
		return &SagaMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quotation_persist_duration_seconds",
		Help:    "Duration of quotation persistence runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotation_persist_outcomes_total",
		Help: "Quotation persistence runs by final outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &SagaMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// ObserveRun records one completed persistence run.
func (s *SagaMetrics) ObserveRun(outcome string, duration time.Duration) {
	if s == nil {
		return
	}
	label := normalizeLabel(outcome)
	if s.outcomes != nil {
		s.outcomes.WithLabelValues(label).Inc()
	}
	if s.duration != nil {
		s.duration.WithLabelValues(label).Observe(duration.Seconds())
	}
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
