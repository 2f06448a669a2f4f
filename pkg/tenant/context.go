package tenant

import (
	"context"
	"log/slog"
)

// DefaultSchema is the reserved schema holding the tenant registry and
// all tenant-agnostic data. Generated tenant schema names carry a
// configured prefix, so they can never collide with it.
const DefaultSchema = "public"

type tenantContextKey struct{}
type schemaContextKey struct{}

// WithTenant binds a validated tenant to the context. The binding lives
// exactly as long as the context does, so a pooled worker picking up the
// next request can never observe a stale tenant.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, t)
}

// FromContext retrieves the bound tenant. Returns nil, false when none is
// bound.
func FromContext(ctx context.Context) (*Tenant, bool) {
	t, ok := ctx.Value(tenantContextKey{}).(*Tenant)
	return t, ok && t != nil
}

// MustFromContext retrieves the bound tenant and panics when none is
// bound. Use only behind RequireTenant.
func MustFromContext(ctx context.Context) *Tenant {
	t, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return t
}

// WithSchema binds a bare schema name without a full tenant record.
// Intended for background jobs and provisioning steps that must run
// against a known schema outside the request path.
func WithSchema(ctx context.Context, schemaName string) context.Context {
	return context.WithValue(ctx, schemaContextKey{}, schemaName)
}

// SchemaFromContext returns the schema name bound to the context, from
// the full tenant binding when present, otherwise from a bare schema
// binding. Returns "", false when neither is bound.
func SchemaFromContext(ctx context.Context) (string, bool) {
	if t, ok := FromContext(ctx); ok {
		return t.SchemaName, true
	}
	if s, ok := ctx.Value(schemaContextKey{}).(string); ok && s != "" {
		return s, true
	}
	return "", false
}

// CurrentSchema answers the persistence layer's "which schema is this
// unit of work for" question. Unbound contexts (background jobs,
// tenant-management endpoints) map to the default schema.
func CurrentSchema(ctx context.Context) string {
	if s, ok := SchemaFromContext(ctx); ok {
		return s
	}
	return DefaultSchema
}

// LoggerExtractor returns a context extractor that stamps the bound
// schema onto log records. Only the canonical, validated schema name is
// ever logged; raw header values stay out of shared logs.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if s, ok := SchemaFromContext(ctx); ok {
			return slog.String("schema", s), true
		}
		return slog.Attr{}, false
	}
}
