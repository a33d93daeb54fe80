// Package metrics exposes Prometheus instrumentation for the analysis
// engine: pass counts, durations, and discovery statistics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all engine metrics, scoped to a private Prometheus registry
// so tests and embedding processes never collide on metric names.
type Registry struct {
	registry *prometheus.Registry

	PassesTotal       *prometheus.CounterVec
	PassDuration      *prometheus.HistogramVec
	TrajectoriesTotal prometheus.Counter
	AttractorsFound   prometheus.Histogram
	PerturbationsRun  prometheus.Counter
	PlausibilityScore prometheus.Gauge
	IterationsRun     prometheus.Gauge
}

// NewRegistry creates a registry with all engine metrics registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initAnalysisMetrics()
	return r
}

// PrometheusRegistry exposes the underlying registry for HTTP handlers and
// test gathering.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordPass records one controller pass with its outcome and duration.
func (r *Registry) RecordPass(status string, duration time.Duration) {
	r.PassesTotal.WithLabelValues(status).Inc()
	r.PassDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordDynamics records the statistics of one dynamics pass.
func (r *Registry) RecordDynamics(trajectories, attractors int) {
	r.TrajectoriesTotal.Add(float64(trajectories))
	r.AttractorsFound.Observe(float64(attractors))
}

// RecordPerturbations records how many forced variants were simulated.
func (r *Registry) RecordPerturbations(count int) {
	r.PerturbationsRun.Add(float64(count))
}

// RecordVerdict records the final score and iteration count of a run.
func (r *Registry) RecordVerdict(score float64, iterations int) {
	r.PlausibilityScore.Set(score)
	r.IterationsRun.Set(float64(iterations))
}
