package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "compomics"

var (
	Registry = prometheus.NewRegistry()

	DBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "objectsdb",
			Name:      "operations_total",
			Help:      "objects database operations by name and result",
		},
		[]string{"op", "result"},
	)
	DBLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "objectsdb",
			Name:      "operation_duration_seconds",
			Help:      "objects database operation latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"op"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "objects_cache",
			Name:      "events_total",
			Help:      "objects cache hits, misses, evictions and write backs",
		},
		[]string{"event"},
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "objects_cache",
			Name:      "entries",
			Help:      "objects currently held by the cache",
		},
	)
)

func init() {
	Registry.MustRegister(
		DBOperations,
		DBLatency,
		CacheEvents,
		CacheSize,
		prometheus.NewGoCollector(),
	)
}
