// Package api exposes the HTTP surface: tenant management endpoints,
// health and metrics, and the middleware chain that binds every other
// request to a tenant.
//
// Tenant management itself is tenant agnostic and sits on the binder's
// skip list; it always talks to the registry through the default schema.
package api
