// Package tenant binds inbound requests to exactly one tenant and
// propagates that binding through the request context.
//
// Each tenant's rows live in a dedicated database schema; the registry of
// tenants lives in the default schema. This package covers the request
// side of that arrangement:
//
//  1. Resolvers extract a tenant identifier candidate from a request
//     (header value or verified token claim) without touching storage.
//  2. The middleware validates the candidate against the registry
//     through the default schema, then binds the registry's canonical
//     schema name into the request context. Raw caller-supplied values
//     are never bound, which closes the schema-name injection hole.
//  3. Context helpers expose the binding to the data layer. The binding
//     is a context value, so it dies with the request on every exit
//     path; there is no thread-local state to forget to clear.
//
// The schema router (pkg/schemarouter) reads CurrentSchema on every
// connection checkout, which is how the binding turns into physical
// schema routing on the shared pool.
package tenant
