// Package metrics provides Prometheus metrics for the filedock server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shishobooks/filedock/pkg/fserr"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedock_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filedock_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedock_operations_total",
			Help: "Total filesystem operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	uploadedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filedock_uploaded_bytes_total",
			Help: "Total bytes written by uploads",
		},
	)

	pathEscapesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filedock_path_escape_attempts_total",
			Help: "Total relative paths rejected for resolving outside of the root",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RegisterRoutes exposes the metrics handler on GET /metrics.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(Handler()))
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation records the outcome of a filesystem operation. Failures are
// labeled with their fserr kind.
func RecordOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = fserr.KindOf(err).String()
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordUploadedBytes adds n to the uploaded bytes counter.
func RecordUploadedBytes(n int64) {
	uploadedBytesTotal.Add(float64(n))
}

// RecordPathEscape records a rejected path.
func RecordPathEscape() {
	pathEscapesTotal.Inc()
}

// Middleware returns echo middleware that records request metrics. The route
// label uses the registered path, not the raw URL, to keep cardinality low.
// Errors haven't been rendered yet when the middleware sees them, so statusOf
// maps them to the status the error handler will write.
func Middleware(statusOf func(error) int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}
			RecordHTTPRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}
