package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests",
	}, []string{"service", "path", "method", "code"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Latency",
	}, []string{"service", "path", "method"})
)

// NewMetricsMiddleware counts requests and observes latency per service.
func NewMetricsMiddleware(serviceName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			code := strconv.Itoa(ww.Status())
			requestCount.WithLabelValues(serviceName, r.URL.Path, r.Method, code).Inc()
			requestLatency.WithLabelValues(serviceName, r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
