// Package server implements the ordered request-processing pipeline: an
// exception boundary, the pass-through identity stage, correlation token
// propagation, per-request deadlines, and the fail-fast validation helpers
// handlers bind through. Stage order is configuration, applied once at router
// construction.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/opsline/incident-gateway/internal/config"
)

type Server struct {
	Router   *chi.Mux
	Boundary *Boundary

	port   int
	logger *slog.Logger
}

// New assembles the router with the configured stage chain. Unknown stage
// names fail at startup, not at request time.
func New(cfg config.ServerConfig, logger *slog.Logger, boundary *Boundary) (*Server, error) {
	r := chi.NewRouter()

	stages := map[string]func(http.Handler) http.Handler{
		"exceptions":  boundary.Middleware,
		"identity":    Identity,
		"correlation": Correlation(logger),
		"timeout":     Timeout(cfg.RequestTimeout),
	}

	seen := make(map[string]bool, len(cfg.Stages))
	for _, name := range cfg.Stages {
		mw, ok := stages[name]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline stage %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("pipeline stage %q listed twice", name)
		}
		seen[name] = true
		r.Use(mw)
	}

	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "incident-gateway")
	})

	return &Server{
		Router:   r,
		Boundary: boundary,
		port:     cfg.Port,
		logger:   logger,
	}, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", slog.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
