// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. HTTPMetrics
// measures request counts, latencies, in-flight concurrency, and response
// sizes with bounded label cardinality:
//
//   - method:   HTTP method verb (GET/POST/…)
//   - path:     the registered Gin route (e.g. /run); falls back to the raw
//     URL path when no route matched
//   - status:   numeric status code as a string (e.g. "202", "401")
//
// Collectors are registered on a caller-supplied Registerer. Registering the
// same collectors twice (e.g. several routers in one process) reuses the
// instances already registered instead of panicking.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-component-service/internal/observability"
)

// HTTPMetrics groups the HTTP collectors.
type HTTPMetrics struct {
	reqs     *prometheus.CounterVec
	lat      *prometheus.HistogramVec
	inflight prometheus.Gauge
	respSize *prometheus.HistogramVec
}

// NewHTTPMetrics creates the HTTP collectors and registers them on reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		reqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		// status is omitted to keep latency histogram cardinality lower.
		lat: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_inflight",
				Help: "Current number of in-flight HTTP requests.",
			},
		),
		respSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_response_size_bytes",
				Help: "Size of HTTP responses in bytes.",
				Buckets: []float64{
					64, 200, 500, 1 << 10, 2 << 10, 5 << 10, // 64B..5KiB
					10 << 10, 50 << 10, 100 << 10, // 10..100KiB
					1 << 20, // 1MiB
				},
			},
			[]string{"method", "path"},
		),
	}
	m.reqs = observability.RegisterOrReuse(reg, m.reqs)
	m.lat = observability.RegisterOrReuse(reg, m.lat)
	m.inflight = observability.RegisterOrReuse(reg, m.inflight)
	m.respSize = observability.RegisterOrReuse(reg, m.respSize)
	return m
}

// Handler returns a Gin middleware that instruments requests.
//
// Usage:
//
//	m := middleware.NewHTTPMetrics(reg)
//	r.Use(m.Handler())
//	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.reqs.WithLabelValues(method, path, status).Inc()
		m.lat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written; skip it.
		if size := c.Writer.Size(); size >= 0 {
			m.respSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
