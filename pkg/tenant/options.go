package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ErrorHandler renders tenant resolution failures to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	cache        Cache
	cacheTTL     time.Duration
	skipPaths    []string
	errorHandler ErrorHandler
	logger       *slog.Logger
}

// Option configures the binder middleware.
type Option func(*middlewareConfig)

// WithCache sets a custom cache implementation, e.g. the Redis-backed one
// for multi-instance deployments.
func WithCache(cache Cache) Option {
	return func(c *middlewareConfig) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithCacheTTL sets how long validated tenant records are cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *middlewareConfig) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution
// entirely: authentication, tenant self-service management, health and
// docs endpoints.
func WithSkipPaths(paths []string) Option {
	return func(c *middlewareConfig) {
		c.skipPaths = paths
	}
}

// WithErrorHandler sets a custom error renderer.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *middlewareConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithLogger sets the middleware logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *middlewareConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// DefaultErrorHandler maps the tenant error taxonomy onto plain HTTP
// status codes. Resolution and validation failures are client errors;
// everything else stays a generic 500 so registry internals do not leak.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTenantMissing):
		http.Error(w, "tenant identifier required", http.StatusBadRequest)
	case errors.Is(err, ErrTenantNotFound):
		http.Error(w, "unknown tenant", http.StatusBadRequest)
	case errors.Is(err, ErrInactiveTenant):
		http.Error(w, "tenant is inactive", http.StatusForbidden)
	case errors.Is(err, ErrTenantNotReady):
		http.Error(w, "tenant is not ready", http.StatusConflict)
	case errors.Is(err, ErrInvalidIdentifier):
		http.Error(w, "invalid tenant identifier", http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
