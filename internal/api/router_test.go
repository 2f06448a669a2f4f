package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-chi/chi/v5"

	"github.com/bookly-hq/bookly/internal/api"
	"github.com/bookly-hq/bookly/pkg/tenant"
	"github.com/bookly-hq/bookly/pkg/token"
)

// mockProvider resolves from a fixed set keyed by schema name and id.
type mockProvider struct {
	tenants map[string]*tenant.Tenant
	calls   int
}

func (m *mockProvider) GetByIdentifier(_ context.Context, identifier string) (*tenant.Tenant, error) {
	m.calls++
	if t, ok := m.tenants[identifier]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func providerFor(tenants ...*tenant.Tenant) *mockProvider {
	m := &mockProvider{tenants: map[string]*tenant.Tenant{}}
	for _, t := range tenants {
		m.tenants[t.SchemaName] = t
		m.tenants[t.ID.String()] = t
	}
	return m
}

func newTokenService(t *testing.T) *token.Service {
	t.Helper()

	svc, err := token.New(token.Config{
		SigningKey: "0123456789abcdef0123456789abcdef",
		TTL:        time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func testRouter(t *testing.T, provider tenant.Provider, svc *token.Service) http.Handler {
	t.Helper()

	return api.NewRouter(api.RouterConfig{
		Provider:     provider,
		TokenService: svc,
		Mount: func(r chi.Router) {
			r.Get("/api/books", func(w http.ResponseWriter, r *http.Request) {
				bound := tenant.MustFromContext(r.Context())
				w.Header().Set("X-Bound-Schema", bound.SchemaName)
				w.WriteHeader(http.StatusOK)
			})
		},
	})
}

func TestRouter_SkipPaths(t *testing.T) {
	t.Parallel()

	provider := providerFor()
	router := testRouter(t, provider, nil)

	t.Run("healthz bypasses tenant resolution", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("metrics bypasses tenant resolution", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	assert.Zero(t, provider.calls, "no registry lookup on skip paths")
}

func TestRouter_TenantBinding(t *testing.T) {
	t.Parallel()

	acme := readyTenant("Acme Library")

	t.Run("header binds canonical schema", func(t *testing.T) {
		t.Parallel()

		router := testRouter(t, providerFor(acme), nil)
		req := httptest.NewRequest("GET", "/api/books", nil)
		req.Header.Set(tenant.DefaultTenantHeader, acme.SchemaName)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, acme.SchemaName, rec.Header().Get("X-Bound-Schema"))
	})

	t.Run("missing tenant rejected with envelope", func(t *testing.T) {
		t.Parallel()

		router := testRouter(t, providerFor(acme), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/books", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "tenant_missing", decodeError(t, rec))
	})

	t.Run("unknown tenant rejected before business logic", func(t *testing.T) {
		t.Parallel()

		router := testRouter(t, providerFor(acme), nil)
		req := httptest.NewRequest("GET", "/api/books", nil)
		req.Header.Set(tenant.DefaultTenantHeader, "nonexistent-tenant")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "tenant_unknown", decodeError(t, rec))
		assert.Empty(t, rec.Header().Get("X-Bound-Schema"))
	})

	t.Run("pending tenant rejected with conflict", func(t *testing.T) {
		t.Parallel()

		pending := readyTenant("Pending Library")
		pending.Status = tenant.StatusPending
		router := testRouter(t, providerFor(pending), nil)

		req := httptest.NewRequest("GET", "/api/books", nil)
		req.Header.Set(tenant.DefaultTenantHeader, pending.SchemaName)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "tenant_not_ready", decodeError(t, rec))
	})

	t.Run("inactive tenant rejected with forbidden", func(t *testing.T) {
		t.Parallel()

		inactive := readyTenant("Inactive Library")
		inactive.Active = false
		router := testRouter(t, providerFor(inactive), nil)

		req := httptest.NewRequest("GET", "/api/books", nil)
		req.Header.Set(tenant.DefaultTenantHeader, inactive.SchemaName)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "tenant_inactive", decodeError(t, rec))
	})
}

// tenantStore backs both the binder lookups and the management endpoints
// with one tenant set. Reads return snapshots, the way the real store
// scans a fresh row per query.
type tenantStore struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*tenant.Tenant
}

func (s *tenantStore) GetByIdentifier(_ context.Context, identifier string) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.SchemaName == identifier || t.ID.String() == identifier {
			snapshot := *t
			return &snapshot, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (s *tenantStore) List(context.Context) ([]*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*tenant.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		snapshot := *t
		out = append(out, &snapshot)
	}
	return out, nil
}

func (s *tenantStore) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tenants[id]; ok {
		snapshot := *t
		return &snapshot, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (s *tenantStore) Deactivate(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return tenant.ErrTenantNotFound
	}
	t.Active = false
	return nil
}

func TestRouter_DeactivationEvictsCachedTenant(t *testing.T) {
	t.Parallel()

	acme := readyTenant("Acme Library")
	store := &tenantStore{tenants: map[uuid.UUID]*tenant.Tenant{acme.ID: acme}}
	cache := tenant.NewInMemoryCache()
	t.Cleanup(func() { cache.Close() })

	router := api.NewRouter(api.RouterConfig{
		Tenants:  api.NewTenantHandler(&mockProvisioner{created: readyTenant("")}, store, cache, nil),
		Provider: store,
		Cache:    cache,
		CacheTTL: time.Minute,
		Mount: func(r chi.Router) {
			r.Get("/api/books", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		},
	})

	// Prime the cache with a successful bound request.
	req := httptest.NewRequest("GET", "/api/books", nil)
	req.Header.Set(tenant.DefaultTenantHeader, acme.SchemaName)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/tenants/"+acme.ID.String(), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The next request must see the deactivation immediately, not the
	// cached record for the rest of its TTL.
	req = httptest.NewRequest("GET", "/api/books", nil)
	req.Header.Set(tenant.DefaultTenantHeader, acme.SchemaName)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "tenant_inactive", decodeError(t, rec))
}

func TestRouter_ClaimsPrecedence(t *testing.T) {
	t.Parallel()

	acme := readyTenant("Acme Library")
	beta := readyTenant("Beta Library")
	svc := newTokenService(t)
	router := testRouter(t, providerFor(acme, beta), svc)

	raw, err := svc.Issue("alice", acme.ID, acme.SchemaName, "MEMBER")
	require.NoError(t, err)

	// Header says beta, verified token says acme: the token wins.
	req := httptest.NewRequest("GET", "/api/books", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	req.Header.Set(tenant.DefaultTenantHeader, beta.SchemaName)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, acme.SchemaName, rec.Header().Get("X-Bound-Schema"))
}
