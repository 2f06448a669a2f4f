package registry

import "errors"

var (
	// ErrAlreadyExists is returned when an insert collides with the
	// unique constraints on schema_name or display_name.
	ErrAlreadyExists = errors.New("registry: tenant already exists")

	// ErrQueryFailed wraps unexpected database errors.
	ErrQueryFailed = errors.New("registry: query failed")
)
