package token

import (
	"net/http"
	"strings"
)

// Middleware verifies the Authorization bearer token when present and
// stores its claims in the request context. Requests without a token, or
// with one that fails verification, continue without claims; whether
// that matters is decided downstream by the tenant binder and the
// authorization layer, not here.
func Middleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization := r.Header.Get("Authorization")
			if !strings.HasPrefix(authorization, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := service.Parse(strings.TrimPrefix(authorization, "Bearer "))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
