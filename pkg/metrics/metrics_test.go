package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, r *Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := r.PrometheusRegistry().Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func TestRegistriesAreIsolated(t *testing.T) {
	// Two registries never share collectors; constructing a second must not
	// panic on duplicate registration and its counters start at zero.
	a := NewRegistry()
	b := NewRegistry()

	a.RecordPerturbations(4)

	families := gather(t, b)
	if f, ok := families["boolnet_perturbations_total"]; ok {
		assert.Zero(t, f.GetMetric()[0].GetCounter().GetValue())
	}
}

func TestRecordPass(t *testing.T) {
	r := NewRegistry()
	r.RecordPass("ok", 50*time.Millisecond)
	r.RecordPass("ok", 100*time.Millisecond)
	r.RecordPass("error", time.Second)

	families := gather(t, r)

	passes := families["boolnet_analysis_passes_total"]
	require.NotNil(t, passes)
	counts := make(map[string]float64)
	for _, m := range passes.GetMetric() {
		counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counts["ok"])
	assert.Equal(t, 1.0, counts["error"])

	durations := families["boolnet_analysis_pass_duration_seconds"]
	require.NotNil(t, durations)
	var total uint64
	for _, m := range durations.GetMetric() {
		total += m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), total)
}

func TestRecordDynamics(t *testing.T) {
	r := NewRegistry()
	r.RecordDynamics(8, 2)
	r.RecordDynamics(16, 3)

	families := gather(t, r)

	trajectories := families["boolnet_trajectories_total"]
	require.NotNil(t, trajectories)
	assert.Equal(t, 24.0, trajectories.GetMetric()[0].GetCounter().GetValue())

	attractors := families["boolnet_attractors_found"]
	require.NotNil(t, attractors)
	hist := attractors.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.Equal(t, 5.0, hist.GetSampleSum())
}

func TestRecordVerdict(t *testing.T) {
	r := NewRegistry()
	r.RecordVerdict(0.85, 2)

	families := gather(t, r)
	assert.Equal(t, 0.85, families["boolnet_plausibility_score"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 2.0, families["boolnet_iterations_run"].GetMetric()[0].GetGauge().GetValue())
}
