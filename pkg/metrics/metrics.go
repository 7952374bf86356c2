// Package metrics holds the Prometheus collectors of the quoting pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of a provider call
const (
	OutcomeRoute  = "route"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"
)

// ProviderBuckets spans quote latencies from 50ms to 30s
var ProviderBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

var (
	// ProviderRequestsTotal counts provider quote calls by outcome
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_swap_provider_requests_total",
			Help: "Provider quote requests",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderLatency records the duration of provider quote calls in seconds
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meta_swap_provider_latency_seconds",
			Help:    "Provider quote latency",
			Buckets: ProviderBuckets,
		},
		[]string{"provider"},
	)

	// NoRouteTotal counts aggregations where no provider produced a route
	NoRouteTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meta_swap_no_route_total",
			Help: "Aggregations without any route",
		},
	)

	// StatusRequestsTotal counts status lookups by provider and outcome
	StatusRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_swap_status_requests_total",
			Help: "Provider status requests",
		},
		[]string{"provider", "outcome"},
	)

	// HTTPRequestsTotal counts API requests by route and status class
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_swap_http_requests_total",
			Help: "API requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration records API request duration in seconds
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meta_swap_http_request_duration_seconds",
			Help:    "API request duration",
			Buckets: ProviderBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderLatency,
		NoRouteTotal,
		StatusRequestsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// ObserveProvider records one provider call started at start
func ObserveProvider(provider, outcome string, start time.Time) {
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
