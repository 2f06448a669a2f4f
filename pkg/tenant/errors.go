package tenant

import "errors"

var (
	// ErrTenantMissing is returned when a request that requires a tenant
	// carries no resolvable identifier.
	ErrTenantMissing = errors.New("tenant identifier required")

	// ErrTenantNotFound is returned when an identifier matches no
	// registered tenant.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInactiveTenant is returned when the tenant exists but has been
	// deactivated.
	ErrInactiveTenant = errors.New("tenant is inactive")

	// ErrTenantNotReady is returned when the tenant row exists but its
	// schema has not finished provisioning, or provisioning failed.
	ErrTenantNotReady = errors.New("tenant is not ready")

	// ErrNoTenantInContext is returned when a handler that requires a
	// bound tenant runs without one.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrInvalidIdentifier is returned when the identifier format is
	// invalid or a second conflicting bind is attempted within one
	// request.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")
)
