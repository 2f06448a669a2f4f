package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookly-hq/bookly/pkg/httpserver"
	"github.com/bookly-hq/bookly/pkg/tenant"
	"github.com/bookly-hq/bookly/pkg/token"
)

// SkipPaths are the tenant-agnostic path prefixes: they bypass tenant
// resolution entirely. Everything else requires a bound tenant.
var SkipPaths = []string{
	"/healthz",
	"/metrics",
	"/api/auth",
	"/api/tenants",
	"/api-docs",
}

// RouterConfig wires the router's collaborators.
type RouterConfig struct {
	Tenants      *TenantHandler
	Provider     tenant.Provider
	TokenService *token.Service // optional; claims resolution is skipped when nil
	TenantHeader string
	Cache        tenant.Cache  // optional; binder falls back to its in-memory cache
	CacheTTL     time.Duration // optional; binder default applies when zero
	Healthchecks []func(context.Context) error
	Logger       *slog.Logger
	Mount        func(r chi.Router) // tenant-scoped business routes
}

// NewRouter assembles the full middleware chain and routes.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if cfg.TokenService != nil {
		r.Use(token.Middleware(cfg.TokenService))
	}

	resolvers := make([]tenant.Resolver, 0, 2)
	if cfg.TokenService != nil {
		// Claims first: the verified token outranks the raw header.
		resolvers = append(resolvers, tenant.NewClaimsResolver(token.SchemaFromContext))
	}
	resolvers = append(resolvers, tenant.NewHeaderResolver(cfg.TenantHeader))

	binderOpts := []tenant.Option{
		tenant.WithSkipPaths(SkipPaths),
		tenant.WithErrorHandler(TenantErrorHandler),
		tenant.WithLogger(log),
	}
	if cfg.Cache != nil {
		binderOpts = append(binderOpts, tenant.WithCache(cfg.Cache))
	}
	if cfg.CacheTTL > 0 {
		binderOpts = append(binderOpts, tenant.WithCacheTTL(cfg.CacheTTL))
	}
	r.Use(tenant.Middleware(
		tenant.NewCompositeResolver(resolvers...),
		cfg.Provider,
		binderOpts...,
	))

	r.Get("/healthz", httpserver.HealthCheckHandler(context.Background(), log, cfg.Healthchecks...))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if cfg.Tenants != nil {
		r.Route("/api/tenants", cfg.Tenants.Routes)
	}

	if cfg.Mount != nil {
		r.Group(func(r chi.Router) {
			r.Use(tenant.RequireTenant(TenantErrorHandler))
			cfg.Mount(r)
		})
	}

	return r
}
