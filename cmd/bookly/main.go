package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookly-hq/bookly/internal/api"
	"github.com/bookly-hq/bookly/internal/provisioner"
	"github.com/bookly-hq/bookly/internal/registry"
	"github.com/bookly-hq/bookly/pkg/config"
	"github.com/bookly-hq/bookly/pkg/httpserver"
	"github.com/bookly-hq/bookly/pkg/logger"
	"github.com/bookly-hq/bookly/pkg/pg"
	"github.com/bookly-hq/bookly/pkg/redis"
	"github.com/bookly-hq/bookly/pkg/schemarouter"
	"github.com/bookly-hq/bookly/pkg/tenant"
	"github.com/bookly-hq/bookly/pkg/token"
)

type appConfig struct {
	ServiceName    string        `env:"SERVICE_NAME" envDefault:"bookly"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"production"`
	TenantHeader   string        `env:"TENANT_HEADER" envDefault:"X-Tenant-ID"`
	SchemaPrefix   string        `env:"TENANT_SCHEMA_PREFIX" envDefault:"t_"`
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	RedisURL       string        `env:"REDIS_URL"` // optional; empty falls back to the in-memory tenant cache
}

func main() {
	var (
		appCfg   appConfig
		pgCfg    pg.Config
		httpCfg  httpserver.Config
		tokenCfg token.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&tokenCfg)

	var log *slog.Logger
	if appCfg.Environment == "development" {
		log = logger.New(
			logger.WithDevelopment(appCfg.ServiceName),
			logger.WithContextExtractors(tenant.LoggerExtractor()),
		)
	} else {
		log = logger.New(
			logger.WithProduction(appCfg.ServiceName),
			logger.WithContextExtractors(tenant.LoggerExtractor()),
		)
	}
	logger.SetAsDefault(log)

	ctx := context.Background()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "Database connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "Registry migration failed", logger.Error(err))
		os.Exit(1)
	}

	tokenSvc, err := token.New(tokenCfg)
	if err != nil {
		log.ErrorContext(ctx, "Token service init failed", logger.Error(err))
		os.Exit(1)
	}

	store := registry.New(pool)
	prov := provisioner.New(store, pool,
		provisioner.WithPrefix(appCfg.SchemaPrefix),
		provisioner.WithLogger(log),
	)
	source := schemarouter.New(pool, schemarouter.WithLogger(log))

	healthchecks := []func(context.Context) error{
		pg.Healthcheck(pool),
		routerCheck(source),
	}

	// One cache instance serves both the binder and the tenant handler,
	// so deactivation can evict what the binder cached.
	var cache tenant.Cache
	if appCfg.RedisURL != "" {
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.ErrorContext(ctx, "Redis connection failed", logger.Error(err))
			os.Exit(1)
		}
		defer client.Close()
		cache = tenant.NewRedisCache(client, "tenant:")
		healthchecks = append(healthchecks, redis.Healthcheck(client))
	} else {
		cache = tenant.NewInMemoryCache()
	}
	defer cache.Close()

	handler := api.NewRouter(api.RouterConfig{
		Tenants:      api.NewTenantHandler(prov, store, cache, log),
		Provider:     store,
		TokenService: tokenSvc,
		TenantHeader: appCfg.TenantHeader,
		Cache:        cache,
		CacheTTL:     appCfg.TenantCacheTTL,
		Healthchecks: healthchecks,
		Logger:       log,
		Mount:        func(r chi.Router) { mountTenantRoutes(r, source) },
	})

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, handler); err != nil {
		log.ErrorContext(ctx, "HTTP server failed", logger.Error(err))
		os.Exit(1)
	}
}

// routerCheck proves the schema-routing acquire/release path works
// against the default schema, so readiness fails before tenants do.
func routerCheck(source *schemarouter.Source) func(context.Context) error {
	return func(ctx context.Context) error {
		conn, err := source.Acquire(ctx)
		if err != nil {
			return err
		}
		defer conn.Release()

		var one int
		return conn.QueryRow(ctx, `SELECT 1`).Scan(&one)
	}
}
