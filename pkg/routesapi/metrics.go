package routesapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus request metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "fantoccini").
	Namespace string

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "fantoccini",
		Buckets:   prometheus.DefBuckets,
	}
}

// metrics holds the Prometheus collectors for one server.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	connections     prometheus.Gauge
	routesServed    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer, config MetricsConfig) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "bridge_connections",
			Help:        "Number of open websocket bridge connections",
			ConstLabels: config.ConstLabels,
		}),

		routesServed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "routes_listed",
			Help:        "Number of routes in the most recent /api/routes response",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// instrument records every request in Prometheus and in Stats.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.metrics.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		s.metrics.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.stats.Observe(elapsed)
	})
}

// routePattern returns the chi route pattern so that metric labels stay
// bounded, falling back to "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
