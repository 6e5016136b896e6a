package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	require.NoError(t, metrics.Track("stock:low_alert").End(nil))
	boom := errors.New("relay down")
	require.ErrorIs(t, metrics.Track("stock:low_alert").End(boom), boom)

	families, err := registry.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "stockroom_jobs_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			status := ""
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" {
					status = label.GetValue()
				}
			}
			counts[status] = metric.GetCounter().GetValue()
		}
	}
	require.Equal(t, 1.0, counts["success"])
	require.Equal(t, 1.0, counts["failure"])
}

func TestNilMetricsTrackerPassesThrough(t *testing.T) {
	var metrics *Metrics
	boom := errors.New("failed")
	require.ErrorIs(t, metrics.Track("x").End(boom), boom)
	require.NoError(t, metrics.Track("x").End(nil))
}
