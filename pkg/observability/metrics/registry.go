// Package metrics provides Prometheus metrics for the document database client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics records per-operation counters and latencies for requests
// issued by the client. All methods are safe for concurrent use.
type ClientMetrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestCharge   *prometheus.CounterVec
	retriesTotal    *prometheus.CounterVec
}

// NewClientMetrics creates a metrics set backed by its own registry, with Go
// runtime collectors registered alongside the client collectors.
func NewClientMetrics() *ClientMetrics {
	m := &ClientMetrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmos_client_requests_total",
			Help: "Requests issued by the client, by resource type, operation, and status code.",
		}, []string{"resource", "operation", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cosmos_client_request_duration_seconds",
			Help:    "End-to-end request latency, by resource type and operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "operation"}),
		requestCharge: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmos_client_request_units_total",
			Help: "Request units consumed, by resource type and operation.",
		}, []string{"resource", "operation"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmos_client_retries_total",
			Help: "Retried attempts, by resource type and HTTP status that caused the retry.",
		}, []string{"resource", "status"}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.requestCharge,
		m.retriesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRequest records the outcome of one request attempt chain.
func (m *ClientMetrics) ObserveRequest(resource, operation string, status int, duration time.Duration, requestCharge float64) {
	if m == nil {
		return
	}
	if resource == "" {
		resource = "account"
	}
	statusLabel := statusText(status)
	m.requestsTotal.WithLabelValues(resource, operation, statusLabel).Inc()
	m.requestDuration.WithLabelValues(resource, operation).Observe(duration.Seconds())
	if requestCharge > 0 {
		m.requestCharge.WithLabelValues(resource, operation).Add(requestCharge)
	}
}

// ObserveRetry records a retried attempt.
func (m *ClientMetrics) ObserveRetry(resource string, status int) {
	if m == nil {
		return
	}
	if resource == "" {
		resource = "account"
	}
	m.retriesTotal.WithLabelValues(resource, statusText(status)).Inc()
}

// Handler exposes the metrics in Prometheus format, for callers that embed
// the client into an instrumented process.
func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying prometheus.Gatherer.
func (m *ClientMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func statusText(status int) string {
	if status <= 0 {
		return "transport_error"
	}
	// Small fixed label space; avoids one time-series per exact code.
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status == 429:
		return "429"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
