package routesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/fantoccini/internal/errors"
)

// Server serves the route listing, stats and metrics endpoints.
type Server struct {
	router     chi.Router
	source     Source
	stats      *Stats
	registry   *prometheus.Registry
	metrics    *metrics
	metricsCfg MetricsConfig
	tracerName string
	message    string
	logger     *slog.Logger
	now        func() time.Time
	shutdown   time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithSource sets where /api/routes reads routes from.
// Defaults to DefaultRoutes.
func WithSource(src Source) Option {
	return func(s *Server) {
		s.source = src
	}
}

// WithRegistry sets the Prometheus registry that collects and exposes the
// server metrics. Defaults to a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithMetricsConfig overrides the metrics namespace, buckets or labels.
func WithMetricsConfig(cfg MetricsConfig) Option {
	return func(s *Server) {
		s.metricsCfg = cfg
	}
}

// WithTracerName sets the OpenTelemetry tracer name.
func WithTracerName(name string) Option {
	return func(s *Server) {
		s.tracerName = name
	}
}

// WithMessage sets the message returned by the catch-all API endpoint.
func WithMessage(msg string) Option {
	return func(s *Server) {
		s.message = msg
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithShutdownTimeout bounds the graceful shutdown in ListenAndServe.
// Defaults to 5 seconds.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdown = d
	}
}

// NewServer creates a server with its routes registered.
func NewServer(opts ...Option) *Server {
	s := &Server{
		source:     DefaultRoutes,
		stats:      NewStats(),
		metricsCfg: defaultMetricsConfig(),
		tracerName: defaultTracerName,
		message:    "Hello from the fantoccini API!",
		logger:     slog.Default(),
		now:        time.Now,
		shutdown:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry, s.metricsCfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.traced)
	r.Use(s.instrument)

	r.Get("/api/routes", s.handleRoutes)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/*", s.handleMessage)
	r.Get("/api", s.handleMessage)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/", s.handleIndex)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Mount attaches another handler, such as the websocket bridge, under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Handle(pattern, h)
}

// Stats returns the server statistics.
func (s *Server) Stats() *Stats {
	return s.stats
}

// Registry returns the Prometheus registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// ConnOpened records an open long-lived connection.
func (s *Server) ConnOpened() {
	s.stats.ConnOpened()
	s.metrics.connections.Inc()
}

// ConnClosed records a closed long-lived connection.
func (s *Server) ConnClosed() {
	s.stats.ConnClosed()
	s.metrics.connections.Dec()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("routes API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("routesapi: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.source.Routes(r.Context())
	if err != nil {
		s.logger.Error("listing routes", "error", err)
		code := errors.CodeOf(err)
		if code == "" {
			code = "E130"
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
			"code":  code,
		})
		return
	}
	if routes == nil {
		routes = []RouteInfo{}
	}
	s.metrics.routesServed.Set(float64(len(routes)))
	writeJSON(w, http.StatusOK, RoutesResponse{Routes: routes, Timestamp: s.now().UTC()})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleMessage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: s.message, Timestamp: s.now().UTC()})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "fantoccini routes API\n"+
		"Available routes:\n"+
		"  - /api         Main API endpoint\n"+
		"  - /api/routes  Route listing\n"+
		"  - /api/stats   Server statistics\n"+
		"  - /metrics     Prometheus metrics\n")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
