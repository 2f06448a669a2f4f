// Package token issues and verifies the signed tokens that carry tenant
// claims between requests.
//
// After login, the token's schema claim becomes the authoritative tenant
// signal: the binder's claims resolver reads it in preference to the
// pre-authentication header. Verification happens once per request in
// the middleware here; downstream code only ever sees an
// already-verified claim set.
package token
