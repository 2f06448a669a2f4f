// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts and slog logging.
//
// Run blocks until the context is cancelled, an interrupt or TERM signal
// arrives, or the listener fails. Shutdown drains in-flight requests
// within the configured deadline. Errors are wrapped with the ErrStart
// and ErrShutdown sentinels for errors.Is checks.
package httpserver
