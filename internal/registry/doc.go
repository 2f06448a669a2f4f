// Package registry persists tenant records in the public.tenants table.
//
// Every query names the table schema-qualified. The registry must behave
// identically no matter which tenant schema is bound on the calling
// context, because the lookup that establishes a binding runs before any
// binding exists.
package registry
