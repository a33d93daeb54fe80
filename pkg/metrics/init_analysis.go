package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.PassesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "boolnet_analysis_passes_total",
			Help: "Total number of analysis passes executed",
		},
		[]string{"status"},
	)

	r.PassDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boolnet_analysis_pass_duration_seconds",
			Help:    "Analysis pass duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0},
		},
		[]string{"status"},
	)

	r.TrajectoriesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "boolnet_trajectories_total",
			Help: "Total number of trajectories simulated",
		},
	)

	r.AttractorsFound = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "boolnet_attractors_found",
			Help:    "Number of distinct attractors discovered per dynamics pass",
			Buckets: []float64{1, 2, 4, 8, 16, 32},
		},
	)

	r.PerturbationsRun = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "boolnet_perturbations_total",
			Help: "Total number of forced-variant simulations",
		},
	)

	r.PlausibilityScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "boolnet_plausibility_score",
			Help: "Final plausibility score of the most recent run",
		},
	)

	r.IterationsRun = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "boolnet_iterations_run",
			Help: "Iteration count of the most recent run",
		},
	)
}
