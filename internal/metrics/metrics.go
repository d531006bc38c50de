// Package metrics exposes Prometheus collectors for the conversion pipeline.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	FetchSuccess    = "success"
	FetchError      = "fetch_error"
	FetchParseError = "parse_error"
)

// Conversion outcomes.
const (
	ConversionFound    = "found"
	ConversionNotFound = "not_found"
	ConversionInvalid  = "invalid"
)

// Metrics groups the application collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	upstreamFetches *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	conversions     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		upstreamFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bs_upstream_fetch_attempts_total",
				Help: "Single attempts against the BS month endpoint by outcome.",
			},
			[]string{"outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bs_month_cache_lookups_total",
				Help: "Month cache lookups by result.",
			},
			[]string{"result"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bs_conversions_total",
				Help: "Date conversions by direction and outcome.",
			},
			[]string{"direction", "outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(m.upstreamFetches, m.cacheLookups, m.conversions, m.httpRequests, m.httpDuration)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// UpstreamFetch records one attempt against the month endpoint.
func (m *Metrics) UpstreamFetch(outcome string) {
	if m == nil {
		return
	}
	m.upstreamFetches.WithLabelValues(outcome).Inc()
}

// CacheLookup records a cache hit ("hit"), miss ("miss") or failure ("error").
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Conversion records the outcome of a conversion in the given direction.
func (m *Metrics) Conversion(direction, outcome string) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(direction, outcome).Inc()
}

// HTTPRequest records a served request.
func (m *Metrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
