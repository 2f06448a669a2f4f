// Package provisioner creates tenants: a registry row plus a dedicated
// database schema with the tenant-local tables.
//
// Registry insert and schema DDL cannot share a transaction, so creation
// runs as a two-phase protocol. The row is inserted in pending status,
// the DDL runs statement by statement, and only then is the row marked
// ready. A DDL failure triggers a compensating cleanup so no registry
// row keeps pointing at a half-built schema.
package provisioner
