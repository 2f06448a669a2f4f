// Package schemarouter bridges the ambient tenant binding and the shared
// pgx connection pool.
//
// Every checkout switches the physical connection's search_path to the
// schema bound on the caller's context; every release switches it back to
// the default schema before the connection re-enters the pool. The pool
// hands the same physical connections to all tenants in turn, so the
// reset on release is what keeps one tenant's schema setting from
// leaking into the next tenant's queries.
//
// A connection whose switch or reset fails is destroyed instead of being
// returned to the pool; a connection in an unknown schema state must
// never be reused.
package schemarouter
