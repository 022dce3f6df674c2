package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
	OutcomeRejected  = "rejected"
)

// Metrics counts family computations and runs on a private registry so
// several orchestrators can coexist in one process
type Metrics struct {
	registry *prometheus.Registry

	families *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		families: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radiomics",
			Name:      "family_computations_total",
			Help:      "Feature family computations by family and outcome.",
		}, []string{"family", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "radiomics",
			Name:      "family_duration_seconds",
			Help:      "Wall time of one feature family computation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"family"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radiomics",
			Name:      "runs_total",
			Help:      "Orchestrator runs by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.families, m.duration, m.runs)
	return m
}

// Registry exposes the collectors for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for a node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeFamily(family, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.families.WithLabelValues(family, outcome).Inc()
	m.duration.WithLabelValues(family).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRun(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}
