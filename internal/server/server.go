// Package server exposes the dashboard UI and its JSON API over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dingshijian/tornado-dashboard/internal/figure"
	"github.com/dingshijian/tornado-dashboard/internal/observability"
	"github.com/dingshijian/tornado-dashboard/internal/tornado"
)

// Year selector bounds shown in the dropdown. Requests outside this range
// are still served; they simply render an empty map.
const (
	MinYear     = 1980
	MaxYear     = 2024
	DefaultYear = 1980
)

// Builder renders the figure for a year. Satisfied by figure.Builder and
// figure.CachedBuilder.
type Builder interface {
	Build(year int) *figure.Figure
}

// Server is the dashboard HTTP server. All shared state behind it (store,
// boundary, figure cache) is written once at startup and read-only after,
// so request handling needs no locking of its own.
type Server struct {
	httpServer *http.Server
	builder    Builder
	store      *tornado.Store
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the dashboard server with all routes mounted.
func NewServer(addr string, builder Builder, store *tornado.Store, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		builder: builder,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/api/figure", s.handleFigure)
	r.Get("/api/years", s.handleYears)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
