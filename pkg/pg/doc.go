// Package pg bootstraps the shared PostgreSQL connection pool used by the
// whole process.
//
// It wires pgx/v5 pooling, registry migrations via goose/v3, health checks
// and common error classification helpers. The pool created here is the
// single shared resource the schema router partitions between tenants;
// there is deliberately no per-tenant pooling anywhere in the system.
package pg
