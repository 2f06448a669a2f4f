package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookly-hq/bookly/internal/provisioner"
	"github.com/bookly-hq/bookly/pkg/logger"
	"github.com/bookly-hq/bookly/pkg/tenant"
)

// Provisioner creates tenants. Satisfied by *provisioner.Provisioner.
type Provisioner interface {
	CreateTenant(ctx context.Context, params provisioner.CreateParams) (*tenant.Tenant, error)
}

// Registry is the read/deactivate surface the handlers need. Satisfied
// by *registry.Store.
type Registry interface {
	List(ctx context.Context) ([]*tenant.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TenantHandler serves the tenant management endpoints.
type TenantHandler struct {
	provisioner Provisioner
	registry    Registry
	cache       tenant.Cache
	log         *slog.Logger
}

// NewTenantHandler creates the handler. The cache must be the same one
// the binder reads, so deactivation can evict the tenant immediately
// instead of waiting out the TTL; nil skips invalidation. A nil logger
// discards.
func NewTenantHandler(p Provisioner, reg Registry, cache tenant.Cache, log *slog.Logger) *TenantHandler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TenantHandler{provisioner: p, registry: reg, cache: cache, log: log}
}

// Routes mounts the handler on a chi router.
func (h *TenantHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Deactivate)
}

type createTenantRequest struct {
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id,omitempty"`
}

// Create provisions a new tenant: registry row plus schema.
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	created, err := h.provisioner.CreateTenant(r.Context(), provisioner.CreateParams{
		DisplayName: req.DisplayName,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, provisioner.ErrInvalidDisplayName):
			respondError(w, http.StatusBadRequest, "invalid_display_name", "display name is required")
		case errors.Is(err, provisioner.ErrTenantAlreadyExists):
			respondError(w, http.StatusConflict, "tenant_already_exists", "a tenant with this display name already exists")
		default:
			h.log.ErrorContext(r.Context(), "Tenant provisioning failed", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "internal_error", "tenant provisioning failed")
		}
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// List returns all registered tenants.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.registry.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "Tenant list failed", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if tenants == nil {
		tenants = []*tenant.Tenant{}
	}
	respondJSON(w, http.StatusOK, tenants)
}

// Get returns one tenant by id.
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid tenant id")
		return
	}

	t, err := h.registry.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "tenant_unknown", "unknown tenant")
			return
		}
		h.log.ErrorContext(r.Context(), "Tenant lookup failed", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// Deactivate soft-disables a tenant. The schema and its data stay in
// place; the binder stops routing to it. The cached record is evicted
// under both keys the binder may have stored it under, so deactivation
// takes effect immediately rather than after the cache TTL.
func (h *TenantHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid tenant id")
		return
	}

	t, err := h.registry.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "tenant_unknown", "unknown tenant")
			return
		}
		h.log.ErrorContext(r.Context(), "Tenant lookup failed", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if err := h.registry.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "tenant_unknown", "unknown tenant")
			return
		}
		h.log.ErrorContext(r.Context(), "Tenant deactivation failed", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if h.cache != nil {
		h.cache.Delete(r.Context(), t.SchemaName)
		h.cache.Delete(r.Context(), t.ID.String())
	}

	w.WriteHeader(http.StatusNoContent)
}
