package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookly-hq/bookly/pkg/tenant"
)

// errorResponse is the structured error envelope: a machine-readable
// code plus a human-readable message. Internal faults always render the
// generic internal_error code so schema and connection details do not
// leak.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Code: code, Message: message})
}

// TenantErrorHandler renders binder failures with the same envelope the
// rest of the API uses. Plugged into the tenant middleware.
func TenantErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenant.ErrTenantMissing):
		respondError(w, http.StatusBadRequest, "tenant_missing", "tenant identifier required")
	case errors.Is(err, tenant.ErrTenantNotFound):
		respondError(w, http.StatusBadRequest, "tenant_unknown", "unknown tenant")
	case errors.Is(err, tenant.ErrInactiveTenant):
		respondError(w, http.StatusForbidden, "tenant_inactive", "tenant is inactive")
	case errors.Is(err, tenant.ErrTenantNotReady):
		respondError(w, http.StatusConflict, "tenant_not_ready", "tenant is not ready")
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		respondError(w, http.StatusBadRequest, "tenant_invalid", "invalid tenant identifier")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
