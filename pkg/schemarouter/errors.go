package schemarouter

import "errors"

var (
	// ErrAcquireFailed is returned when no connection could be obtained
	// from the underlying pool.
	ErrAcquireFailed = errors.New("failed to acquire connection from pool")

	// ErrSchemaSwitchFailed is returned when the schema switch statement
	// failed on a freshly acquired connection. The connection is
	// destroyed, not pooled; callers may retry, which draws a fresh
	// connection.
	ErrSchemaSwitchFailed = errors.New("failed to switch connection schema")

	// ErrInvalidSchemaName is returned when the bound schema name does
	// not look like a registry-generated identifier. Only canonical
	// names from the registry should ever reach the router.
	ErrInvalidSchemaName = errors.New("invalid schema name")

	// ErrUnsupported is reported by capability-introspection operations
	// that would let callers bypass the acquire/release protocol.
	ErrUnsupported = errors.New("operation not supported")
)
