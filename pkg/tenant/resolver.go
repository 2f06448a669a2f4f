package tenant

import (
	"context"
	"net/http"
)

// Resolver extracts a tenant identifier candidate from an HTTP request.
// Resolution is pure extraction: it never touches storage and never
// validates that the candidate exists.
type Resolver interface {
	// Resolve returns the candidate identifier, or "" when the request
	// carries none.
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r *http.Request) (string, error)

func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// HeaderResolver reads the tenant identifier from a configurable HTTP
// header. This is the pre-authentication signal: callers that have not
// logged in yet name their library explicitly.
type HeaderResolver struct {
	HeaderName string
}

// DefaultTenantHeader is used when no header name is configured.
const DefaultTenantHeader = "X-Tenant-ID"

// NewHeaderResolver creates a header resolver for the given header name.
func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = DefaultTenantHeader
	}
	return &HeaderResolver{HeaderName: headerName}
}

func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	return r.Header.Get(h.HeaderName), nil
}

// ClaimsResolver reads the schema claim of an already-verified signed
// token. Token verification happens upstream (pkg/token middleware);
// this resolver only consumes the claim set that verification placed in
// the request context.
type ClaimsResolver struct {
	fromContext func(ctx context.Context) (string, bool)
}

// NewClaimsResolver creates a resolver backed by a context accessor such
// as token.SchemaFromContext.
func NewClaimsResolver(fromContext func(ctx context.Context) (string, bool)) *ClaimsResolver {
	return &ClaimsResolver{fromContext: fromContext}
}

func (c *ClaimsResolver) Resolve(r *http.Request) (string, error) {
	if c.fromContext == nil {
		return "", nil
	}
	if schema, ok := c.fromContext(r.Context()); ok {
		return schema, nil
	}
	return "", nil
}

// CompositeResolver tries resolvers in order and returns the first
// non-empty candidate. Place the claims resolver first so that the
// token-derived schema takes precedence once authentication succeeds.
type CompositeResolver struct {
	resolvers []Resolver
}

// NewCompositeResolver creates a composite over the given resolvers.
func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	for _, resolver := range c.resolvers {
		id, err := resolver.Resolve(r)
		if err != nil {
			return "", err
		}
		if id != "" {
			return id, nil
		}
	}
	return "", nil
}
