// Package metrics holds the platform's Prometheus collectors: batch
// processing duration, execution-gate CAS contention, and facilitator call
// latency, scraped from GET /metrics alongside the Go runtime collectors
// client_golang registers by default.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "payos",
		Subsystem: "batch",
		Name:      "process_duration_seconds",
		Help:      "Time spent walking a batch's items under the shared balance view.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tenant"})

	ExecutionContention = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payos",
		Subsystem: "execution",
		Name:      "gate_contention_total",
		Help:      "Count of execute calls that lost the TryExecuteSimulation compare-and-swap to a concurrent caller.",
	}, []string{"tenant"})

	FacilitatorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "payos",
		Subsystem: "facilitator",
		Name:      "call_duration_seconds",
		Help:      "Latency of sandbox facilitator verify/settle calls, including circuit-breaker overhead.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
)
