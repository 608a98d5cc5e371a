// Package metrics holds the Prometheus collectors shared by the planner and
// the HTTP server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccl",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ccl",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// TraverseBuilds counts traverse requests by result: ok, cached or invalid
	TraverseBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccl",
		Subsystem: "traverse",
		Name:      "builds_total",
		Help:      "Traverse plans requested, by result",
	}, []string{"result"})

	// TraverseTransects observes the transect count of each built traverse
	TraverseTransects = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ccl",
		Subsystem: "traverse",
		Name:      "transects",
		Help:      "Transects per built traverse",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	// OrthodromSamples observes the point count of each sampled great circle
	OrthodromSamples = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ccl",
		Subsystem: "orthodrom",
		Name:      "samples",
		Help:      "Points per sampled great-circle route",
		Buckets:   prometheus.ExponentialBuckets(2, 2, 14),
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccl",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Plan cache hits",
	}, []string{"source"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccl",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Plan cache misses",
	}, []string{"source"})
)

// Middleware records request metrics
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler serves the Prometheus exposition format
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
