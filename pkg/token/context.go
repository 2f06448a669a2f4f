package token

import "context"

type claimsContextKey struct{}

// WithClaims stores a verified claim set in the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext retrieves the verified claim set, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok && claims != nil
}

// SchemaFromContext returns the schema claim of the verified token on
// this context. This is the accessor the tenant claims resolver reads.
func SchemaFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.Schema == "" {
		return "", false
	}
	return claims.Schema, true
}
