package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry and the collectors used by the service.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
	modelCalls      *prometheus.CounterVec
	modelDuration   *prometheus.HistogramVec
	parseOutcomes   *prometheus.CounterVec
	imageFixes      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "a11y",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "a11y",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
		}),
		modelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "model",
			Name:      "calls_total",
			Help:      "External model calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		modelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "a11y",
			Subsystem: "model",
			Name:      "call_duration_seconds",
			Help:      "External model call duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		}, []string{"operation"}),
		parseOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "parse",
			Name:      "outcomes_total",
			Help:      "Model response parse outcomes by report type and kind.",
		}, []string{"report", "kind"}),
		imageFixes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a11y",
			Subsystem: "image",
			Name:      "fixes_total",
			Help:      "Image fix simulations by applied filter.",
		}, []string{"filter"}),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
		m.modelCalls,
		m.modelDuration,
		m.parseOutcomes,
		m.imageFixes,
	)
	return m
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records request counts and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveModelCall records one external model call.
func (m *Metrics) ObserveModelCall(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.modelCalls.WithLabelValues(operation, outcome).Inc()
	m.modelDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncParseOutcome records whether a report came from structured or fallback parsing.
func (m *Metrics) IncParseOutcome(report, kind string) {
	if m == nil {
		return
	}
	m.parseOutcomes.WithLabelValues(report, kind).Inc()
}

// IncImageFix records an applied image filter.
func (m *Metrics) IncImageFix(filter string) {
	if m == nil {
		return
	}
	m.imageFixes.WithLabelValues(filter).Inc()
}
