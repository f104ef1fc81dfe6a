// Package app is the composition root: it builds the stores, the enricher,
// the versioned handler registries, and the stage pipeline from configuration,
// and mounts every route. Tests exercise the full pipeline through Handler().
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/opsline/incident-gateway/internal/config"
	"github.com/opsline/incident-gateway/internal/enrich"
	"github.com/opsline/incident-gateway/internal/enrich/keyword"
	"github.com/opsline/incident-gateway/internal/enrich/remote"
	"github.com/opsline/incident-gateway/internal/handlers"
	"github.com/opsline/incident-gateway/internal/server"
	"github.com/opsline/incident-gateway/internal/storage/memory"
	"github.com/opsline/incident-gateway/internal/version"
)

// App wires the gateway together.
type App struct {
	Incidents *memory.IncidentStore
	Orders    *memory.OrderStore

	srv      *server.Server
	logger   *slog.Logger
	enricher enrich.Enricher
}

// Option overrides a default dependency.
type Option func(*App)

// WithEnricher replaces the config-selected enricher.
func WithEnricher(e enrich.Enricher) Option {
	return func(a *App) { a.enricher = e }
}

// New builds the gateway from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	a := &App{
		Incidents: memory.NewIncidentStore(),
		Orders:    memory.NewOrderStore(),
		logger:    logger,
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.enricher == nil {
		switch cfg.Enrichment.Mode {
		case "remote":
			a.enricher = remote.New(cfg.Enrichment.BaseURL)
		default:
			a.enricher = keyword.New(cfg.Enrichment.Delay)
		}
	}

	boundary := server.NewBoundary(logger, cfg.Development())
	srv, err := server.New(cfg.Server, logger, boundary)
	if err != nil {
		return nil, err
	}
	a.srv = srv

	a.mountRoutes(cfg, boundary)
	return a, nil
}

func (a *App) mountRoutes(cfg *config.Config, boundary *server.Boundary) {
	r := a.srv.Router

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	incidents := handlers.NewIncidentHandler(a.Incidents, a.enricher,
		cfg.Validation.DescriptionMin, cfg.Validation.DescriptionMax)
	r.Method(http.MethodPost, "/incidents", boundary.Handle(incidents.Create))
	r.Method(http.MethodGet, "/incidents", boundary.Handle(incidents.List))
	r.Method(http.MethodGet, "/incidents/{id}", boundary.Handle(incidents.Get))

	v1 := handlers.NewOrdersV1(a.Orders)
	v2 := handlers.NewOrdersV2(a.Orders)

	createOrders := version.NewRegistry()
	createOrders.Register("1.0", boundary.Handle(v1.Create))
	createOrders.Register("2.0", boundary.Handle(v2.Create))
	createResolver := version.NewResolver(createOrders, cfg.API.VersionHeader, cfg.API.DefaultVersion)

	getOrders := version.NewRegistry()
	getOrders.Register("1.0", boundary.Handle(v1.Get))
	getOrders.Register("2.0", boundary.Handle(v2.Get))
	getResolver := version.NewResolver(getOrders, cfg.API.VersionHeader, cfg.API.DefaultVersion)

	r.Method(http.MethodPost, "/orders", boundary.Handle(createResolver.Dispatch))
	r.Method(http.MethodPost, "/v{version}/orders", boundary.Handle(createResolver.Dispatch))
	r.Method(http.MethodGet, "/orders/{id}", boundary.Handle(getResolver.Dispatch))
	r.Method(http.MethodGet, "/v{version}/orders/{id}", boundary.Handle(getResolver.Dispatch))
}

// Handler exposes the assembled pipeline for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.srv.Router
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.srv.Start(ctx)
}
