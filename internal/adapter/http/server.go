// Package http exposes the planning API plus health, readiness, and metrics
// endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hydroplan/rainharvest/internal/domain"
	"github.com/hydroplan/rainharvest/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadyFunc adapts a plain function to the ReadinessChecker interface.
type ReadyFunc func(ctx context.Context) error

func (f ReadyFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// AlwaysReady is the readiness check for HTTP-only deployments with no
// pipeline to wait for.
var AlwaysReady = ReadyFunc(func(context.Context) error { return nil })

// Server exposes the scenario planning API over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics
	climate    domain.ClimatologySource
	band       domain.TankBand
}

// NewServer creates an HTTP server with the planning API routes plus
// /healthz, /readyz, and /metrics. Pass a nil climate source to disable
// climatology lookups.
func NewServer(addr string, ready ReadinessChecker, climate domain.ClimatologySource, band domain.TankBand, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:  logger,
		metrics: metrics,
		climate: climate,
		band:    band,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/harvest", s.instrument("harvest", s.handleHarvest))
	mux.HandleFunc("POST /api/v1/integrity", s.instrument("integrity", s.handleIntegrity))
	mux.HandleFunc("POST /api/v1/tank-fit", s.instrument("tank_fit", s.handleTankFit))
	mux.HandleFunc("POST /api/v1/assess", s.instrument("assess", s.handleAssess))
	mux.HandleFunc("POST /api/v1/assess/report", s.instrument("assess_report", s.handleAssessReport))
	mux.HandleFunc("GET /api/v1/profiles/default", s.instrument("profiles_default", s.handleDefaultProfile))
	mux.HandleFunc("POST /api/v1/profiles/import", s.instrument("profiles_import", s.handleProfileImport))
	mux.HandleFunc("POST /api/v1/profiles/export", s.instrument("profiles_export", s.handleProfileExport))
	mux.HandleFunc("GET /api/v1/climatology", s.instrument("climatology", s.handleClimatology))

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// instrument wraps a handler with per-endpoint request counting and latency
// observation.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h(rec, r)

		s.metrics.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
