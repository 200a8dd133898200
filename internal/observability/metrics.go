package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of the service.
//
// Metrics:
//   - <ns>_estimates_total: estimates computed, by model
//   - <ns>_estimate_cost_usd: estimated total cost distribution, by model
//   - <ns>_catalog_saves_total: catalog submissions, by outcome
//   - <ns>_catalog_load_warnings_total: loads that fell back to defaults, by kind
//   - <ns>_http_requests_total / <ns>_http_request_duration_seconds: by method, route and status
type Metrics struct {
	registry *prometheus.Registry

	estimatesTotal *prometheus.CounterVec
	estimateCost   *prometheus.HistogramVec
	catalogSaves   *prometheus.CounterVec
	loadWarnings   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors with registry.
func NewMetrics(namespace string, registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,

		estimatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "estimates_total",
				Help:      "Estimates computed by model",
			},
			[]string{"model"},
		),

		estimateCost: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "estimate_cost_usd",
				Help:      "Estimated total cost in USD",
				Buckets:   []float64{0.001, 0.01, 0.1, 1, 10, 100, 1000, 10000},
			},
			[]string{"model"},
		),

		catalogSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_saves_total",
				Help:      "Catalog submissions by outcome",
			},
			[]string{"outcome"},
		),

		loadWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_load_warnings_total",
				Help:      "Catalog loads that fell back to defaults, by kind",
			},
			[]string{"kind"},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		m.estimatesTotal,
		m.estimateCost,
		m.catalogSaves,
		m.loadWarnings,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// RecordEstimate records one computed estimate.
func (m *Metrics) RecordEstimate(modelID string, totalUSD float64, _ int) {
	m.estimatesTotal.WithLabelValues(modelID).Inc()
	m.estimateCost.WithLabelValues(modelID).Observe(totalUSD)
}

// RecordSave records the outcome of one catalog submission.
func (m *Metrics) RecordSave(outcome string) {
	m.catalogSaves.WithLabelValues(outcome).Inc()
}

// RecordLoadWarning records a load that fell back to the default catalog.
func (m *Metrics) RecordLoadWarning(kind string) {
	m.loadWarnings.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the prometheus exposition handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
