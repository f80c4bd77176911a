// Package metrics records per-route call counts, latencies and in-flight
// gauges with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Collector holds the service call metrics.
type Collector struct {
	registry *prometheus.Registry

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// NewCollector creates a collector registered on a fresh registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "tinyservice"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.calls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "calls_total",
			Help:      "Total number of completed service calls",
		},
		[]string{"route", "outcome"},
	)

	c.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "call_duration_seconds",
			Help:      "Time from Call until the call future resolved or was dropped",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"route", "outcome"},
	)

	c.inFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "in_flight",
			Help:      "Number of calls started but not yet resolved",
		},
		[]string{"route"},
	)

	c.registry.MustRegister(c.calls, c.duration, c.inFlight)

	return c
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) started(route string) {
	c.inFlight.WithLabelValues(route).Inc()
}

func (c *Collector) finished(route, outcome string, seconds float64) {
	c.inFlight.WithLabelValues(route).Dec()
	c.calls.WithLabelValues(route, outcome).Inc()
	c.duration.WithLabelValues(route, outcome).Observe(seconds)
}
