package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

// Metrics holds the collectors for one process. Each instance owns its own
// registry.
type Metrics struct {
	// UpstreamRequests tracks upstream attempts per operation and outcome
	UpstreamRequests *prometheus.CounterVec

	// UpstreamRetries tracks rate-limit retries per operation
	UpstreamRetries *prometheus.CounterVec

	// UpstreamLatency tracks the latency of single upstream attempts
	UpstreamLatency *prometheus.HistogramVec

	// HTTPRequests tracks served requests per route and status code
	HTTPRequests *prometheus.CounterVec

	registry *prometheus.Registry
}

var _ upstream.Observer = (*Metrics)(nil)

// New creates a Metrics with a fresh registry that also exports Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		UpstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "employee_api_upstream_requests_total",
				Help: "Total number of upstream request attempts",
			},
			[]string{"operation", "outcome"},
		),
		UpstreamRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "employee_api_upstream_retries_total",
				Help: "Total number of retries after upstream rate limiting",
			},
			[]string{"operation"},
		),
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "employee_api_upstream_request_duration_seconds",
				Help:    "Upstream request attempt latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "employee_api_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "code"},
		),
		registry: reg,
	}
}

// ObserveAttempt records one upstream attempt.
func (m *Metrics) ObserveAttempt(op string, outcome upstream.Outcome, elapsed time.Duration) {
	label := operationLabel(op)
	m.UpstreamRequests.WithLabelValues(label, outcome.String()).Inc()
	m.UpstreamLatency.WithLabelValues(label).Observe(elapsed.Seconds())
}

// ObserveRetry records one retry.
func (m *Metrics) ObserveRetry(op string) {
	m.UpstreamRetries.WithLabelValues(operationLabel(op)).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(route string, code int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// operationLabel turns a client operation name such as "FetchByID" into a
// metric label such as "fetch_by_id".
func operationLabel(op string) string {
	return strcase.ToSnake(op)
}
