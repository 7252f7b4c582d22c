package deq

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	items     prometheus.Gauge
	pushes    prometheus.Counter
	pops      *prometheus.CounterVec
	drains    prometheus.Counter
	drainSize prometheus.Histogram
	snapshots prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer, namespace, subsystem string) *metrics {
	if registerer != nil {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "deq"},
			registerer,
		)
	}

	m := metrics{
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items",
			Help:      "Number of items in buffer",
		}),
		pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pushes",
			Help:      "Number of items pushed into buffer",
		}),
		pops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pops",
			Help:      "Number of pops from buffer",
		}, []string{"result"}),
		drains: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "drains",
			Help:      "Number of drains of buffer",
		}),
		drainSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "drain_size",
			Help:      "Number of items removed per drain",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshots",
			Help:      "Number of snapshots saved to storage",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.items,
			m.pushes,
			m.pops,
			m.drains,
			m.drainSize,
			m.snapshots,
		)
	}

	return &m
}
