// Package metrics holds the Prometheus collectors for dinehub and serves
// them on /metrics. HTTP traffic is labelled by chi route pattern, so
// /api/orders/{id} is one series regardless of the order id.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dinehub"

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	}, labels)
}

func histogram(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

// ─── HTTP ─────────────────────────────────────────────────────────────────────

var (
	RequestTotal    = counter("http", "requests_total", "HTTP requests served.", "method", "route", "status")
	RequestDuration = histogram("http", "request_duration_seconds", "HTTP request latency.",
		prometheus.DefBuckets, "method", "route", "status")
	ResponseSize = histogram("http", "response_size_bytes", "HTTP response body size.",
		prometheus.ExponentialBuckets(128, 4, 6), "method", "route")
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "http", Name: "requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
)

// ─── Domain ───────────────────────────────────────────────────────────────────

var (
	// AuthFailures is labelled by reason: missing, invalid, forbidden or login.
	AuthFailures = counter("auth", "failures_total", "Rejected authentication attempts.", "reason")

	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "orders", Name: "created_total",
		Help: "Orders accepted.",
	})
	OrderTransitions = counter("orders", "transitions_total", "Applied order status changes.", "from", "to")

	// Panics is labelled by transport: http or grpc.
	Panics = counter("server", "panics_total", "Handler panics recovered.", "transport")

	CacheHits   = counter("cache", "hits_total", "Menu cache hits.", "driver")
	CacheMisses = counter("cache", "misses_total", "Menu cache misses.", "driver")

	QueryDuration = histogram("store", "query_duration_seconds", "Store query latency.",
		[]float64{.001, .005, .01, .025, .05, .1, .5, 1}, "store", "op")
)

// Registry is what Handler serves.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestTotal, RequestDuration, ResponseSize, InFlight,
		AuthFailures, OrdersCreated, OrderTransitions,
		Panics, CacheHits, CacheMisses, QueryDuration,
	)
}

// MustRegister adds collectors owned by other packages.
func MustRegister(c ...prometheus.Collector) { Registry.MustRegister(c...) }

// TimeQuery starts a store timer; call the result when the query returns.
//
//	defer metrics.TimeQuery("mongo", "select")()
func TimeQuery(store, op string) func() {
	start := time.Now()
	return func() {
		QueryDuration.WithLabelValues(store, op).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in text or OpenMetrics format.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}).ServeHTTP
}
