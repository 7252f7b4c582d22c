package deq_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teenjuna/deq"
	"github.com/teenjuna/deq/internal/testing/require"
)

func TestPrometheus(t *testing.T) {
	registry := prometheus.NewRegistry()

	buffer, err := deq.New(deq.WithPrometheus[int](registry, "deq", "test"))
	require.Nil(t, err)

	buffer.PushAll(1, 2, 3)
	buffer.Pop()
	buffer.Pop()
	buffer.Drain()
	buffer.Pop()

	require.Equal(t, metricValue(t, registry, "deq_test_items"), 0.0)
	require.Equal(t, metricValue(t, registry, "deq_test_pushes"), 3.0)
	require.Equal(t, metricValue(t, registry, "deq_test_drains"), 1.0)
}

func metricValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.Nil(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		metric := family.GetMetric()[0]
		if gauge := metric.GetGauge(); gauge != nil {
			return gauge.GetValue()
		}
		if counter := metric.GetCounter(); counter != nil {
			return counter.GetValue()
		}
	}

	t.Fatalf("metric `%s` not found", name)
	return 0
}
