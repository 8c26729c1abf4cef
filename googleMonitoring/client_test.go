package googlemonitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmgate/promptrefiner/metrics"
)

func TestBuildTimeSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)
	recorder.ObserveRefinement("heuristic", 250*time.Millisecond)
	recorder.ModelFailure("timeout")

	other := prometheus.NewCounter(prometheus.CounterOpts{Name: "unrelated_total", Help: "x"})
	reg.MustRegister(other)
	other.Inc()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	series := BuildTimeSeries(mfs, "my-project", metrics.Namespace+"_", now)

	byType := make(map[string]float64)
	for _, ts := range series {
		assert.Equal(t, "global", ts.Resource.Type)
		assert.Equal(t, "my-project", ts.Resource.Labels["project_id"])
		require.Len(t, ts.Points, 1)
		assert.Equal(t, now.Unix(), ts.Points[0].Interval.EndTime.GetSeconds())
		byType[ts.Metric.Type+"|"+ts.Metric.Labels["strategy"]+ts.Metric.Labels["category"]] = ts.Points[0].Value.GetDoubleValue()
	}

	assert.Equal(t, 1.0, byType["custom.googleapis.com/promptrefiner_refinements_total|heuristic"])
	assert.Equal(t, 1.0, byType["custom.googleapis.com/promptrefiner_model_failures_total|timeout"])
	assert.InDelta(t, 0.25, byType["custom.googleapis.com/promptrefiner_refine_duration_seconds|heuristic"], 1e-9)
	for key := range byType {
		assert.NotContains(t, key, "unrelated_total")
	}
}

func TestBuildTimeSeriesEmpty(t *testing.T) {
	assert.Empty(t, BuildTimeSeries(nil, "p", "promptrefiner_", time.Now()))
}
