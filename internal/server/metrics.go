// Package server — metrics.go registers all Prometheus metrics for the HTTP
// server and exposes helpers used by handlers and middleware.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values shared across registrations.
const (
	// labelHandler is the "handler" label value used to partition metrics by
	// the logical endpoint name rather than the raw URL path.
	labelHandler = "handler"
)

// serverMetrics holds all Prometheus metrics owned by the HTTP server.
// A single instance is created in New and stored on Server so that tests can
// inject a fresh prometheus.Registry without polluting the default one.
type serverMetrics struct {
	// recommendRequestsTotal counts completed /api/recommend requests,
	// partitioned by pipeline outcome: "matched", "no_match",
	// "no_candidates", "unavailable", or "error".
	recommendRequestsTotal *prometheus.CounterVec

	// recommendDurationSeconds records the wall-clock duration of each
	// /api/recommend request, covering retrieval plus all model calls.
	recommendDurationSeconds *prometheus.HistogramVec

	// recommendInFlight is the number of /api/recommend requests currently
	// being answered.
	recommendInFlight prometheus.Gauge

	// httpRequestsTotal counts all HTTP requests handled by the mux,
	// partitioned by method, path pattern, and status code.
	httpRequestsTotal *prometheus.CounterVec

	// httpDurationSeconds records the latency of all HTTP requests.
	httpDurationSeconds *prometheus.HistogramVec
}

// newServerMetrics registers all server metrics against reg and returns the
// populated serverMetrics. promauto.With(reg) is used so that each call
// registers into the provided registry rather than the global default —
// this keeps unit tests hermetic.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)

	return &serverMetrics{
		recommendRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "souschef",
			Subsystem: "recommend",
			Name:      "requests_total",
			Help:      "Total number of /api/recommend requests completed, partitioned by pipeline outcome.",
		}, []string{"outcome"}),

		recommendDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "souschef",
			Subsystem: "recommend",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of /api/recommend requests including all model calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),

		recommendInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "souschef",
			Subsystem: "recommend",
			Name:      "in_flight",
			Help:      "Number of /api/recommend requests currently being answered.",
		}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "souschef",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the server, partitioned by method, handler, and status code.",
		}, []string{"method", labelHandler, "code"}),

		httpDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "souschef",
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "Latency of HTTP requests handled by the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", labelHandler}),
	}
}
