package tenant

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Middleware is the per-request tenant binder. For every request outside
// the skip list it resolves a candidate identifier, validates it against
// the registry, and binds the registry's canonical schema name into the
// request context. Requests that fail resolution or validation are
// rejected before any business logic runs.
//
// The binding is carried as a context value scoped to the request, so it
// is released on every exit path, including panics and client
// disconnects, without an explicit clear.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		cache:        NewInMemoryCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: DefaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			candidate, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if candidate == "" {
				cfg.errorHandler(w, r, ErrTenantMissing)
				return
			}

			// Rebinding to a different tenant within one request is a
			// programming error; the same tenant twice is a no-op.
			if bound, ok := FromContext(r.Context()); ok {
				if bound.SchemaName == candidate || bound.ID.String() == candidate {
					next.ServeHTTP(w, r)
					return
				}
				cfg.errorHandler(w, r, ErrInvalidIdentifier)
				return
			}

			t, ok := cfg.cache.Get(r.Context(), candidate)
			if !ok {
				// The provider queries the registry through the default
				// schema; nothing here depends on an existing binding.
				t, err = provider.GetByIdentifier(r.Context(), candidate)
				if err != nil {
					cfg.errorHandler(w, r, err)
					return
				}
				// Only resolvable tenants are cached; a tenant mid-
				// provisioning must become visible as soon as it is ready.
				if t.Resolvable() {
					cfg.cache.Set(r.Context(), candidate, t, cfg.cacheTTL)
				}
			}

			if !t.Active {
				cfg.errorHandler(w, r, ErrInactiveTenant)
				return
			}
			if t.Status != StatusReady {
				cfg.errorHandler(w, r, ErrTenantNotReady)
				return
			}

			// Bind the canonical schema name from the registry record,
			// never the raw candidate.
			cfg.logger.DebugContext(r.Context(), "binding request to tenant",
				slog.String("schema", t.SchemaName))
			ctx := WithTenant(r.Context(), t)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant guards routes that must not run without a bound tenant.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
