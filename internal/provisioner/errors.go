package provisioner

import "errors"

var (
	// ErrTenantAlreadyExists is returned when the display name is
	// already taken.
	ErrTenantAlreadyExists = errors.New("provisioner: tenant already exists")

	// ErrInvalidDisplayName is returned for an empty or blank display
	// name.
	ErrInvalidDisplayName = errors.New("provisioner: invalid display name")

	// ErrProvisioningFailed is returned when the schema DDL or a
	// registry write failed. The partial registry row has been
	// compensated away or flagged failed; it is never resolvable.
	ErrProvisioningFailed = errors.New("provisioner: provisioning failed")
)
