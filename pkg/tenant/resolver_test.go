package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookly-hq/bookly/pkg/tenant"
)

func TestHeaderResolver(t *testing.T) {
	t.Parallel()

	t.Run("reads configured header", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewHeaderResolver("X-Library-ID")
		req := httptest.NewRequest("GET", "/api/books", nil)
		req.Header.Set("X-Library-ID", "t_acme")

		id, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "t_acme", id)
	})

	t.Run("defaults header name", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewHeaderResolver("")
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(tenant.DefaultTenantHeader, "t_beta")

		id, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "t_beta", id)
	})

	t.Run("missing header resolves empty", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewHeaderResolver("X-Library-ID")
		req := httptest.NewRequest("GET", "/", nil)

		id, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}

func TestClaimsResolver(t *testing.T) {
	t.Parallel()

	type claimsKey struct{}

	fromContext := func(ctx context.Context) (string, bool) {
		s, ok := ctx.Value(claimsKey{}).(string)
		return s, ok
	}

	t.Run("reads schema claim from context", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewClaimsResolver(fromContext)
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), claimsKey{}, "t_acme"))

		id, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "t_acme", id)
	})

	t.Run("no claims resolves empty", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewClaimsResolver(fromContext)
		id, err := resolver.Resolve(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("nil accessor resolves empty", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewClaimsResolver(nil)
		id, err := resolver.Resolve(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()

	empty := tenant.ResolverFunc(func(r *http.Request) (string, error) { return "", nil })
	claims := tenant.ResolverFunc(func(r *http.Request) (string, error) { return "t_from_token", nil })
	header := tenant.NewHeaderResolver("X-Tenant-ID")

	t.Run("first non-empty candidate wins", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewCompositeResolver(empty, claims, header)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Tenant-ID", "t_from_header")

		id, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "t_from_token", id)
	})

	t.Run("token claim takes precedence over header", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewCompositeResolver(claims, header)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Tenant-ID", "t_from_header")

		id, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "t_from_token", id)
	})

	t.Run("falls through to header without token", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewCompositeResolver(empty, header)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Tenant-ID", "t_from_header")

		id, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "t_from_header", id)
	})

	t.Run("all empty resolves empty", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewCompositeResolver(empty, empty)
		id, err := resolver.Resolve(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("resolver error stops the chain", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("extraction failed")
		failing := tenant.ResolverFunc(func(r *http.Request) (string, error) { return "", boom })

		resolver := tenant.NewCompositeResolver(failing, header)
		_, err := resolver.Resolve(httptest.NewRequest("GET", "/", nil))
		assert.ErrorIs(t, err, boom)
	})
}
