package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status tracks provisioning progress. Only ready tenants are resolvable
// on the request path; a tenant whose schema DDL failed stays failed and
// invisible until an operator intervenes.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Tenant is one isolated library organization: a registry row plus a
// dedicated database schema named SchemaName.
type Tenant struct {
	ID          uuid.UUID `json:"id"`
	SchemaName  string    `json:"schema_name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	Status      Status    `json:"status"`
	OwnerID     uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Resolvable reports whether the request binder may route traffic to this
// tenant.
func (t *Tenant) Resolvable() bool {
	return t.Active && t.Status == StatusReady
}

// Provider loads tenant records from the registry. Implementations must
// query the registry through the default schema explicitly, never through
// whatever schema happens to be bound on the calling context; the lookup
// that establishes a binding cannot depend on one.
type Provider interface {
	// GetByIdentifier retrieves a tenant by schema name or id.
	// Returns ErrTenantNotFound if no tenant matches.
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}
