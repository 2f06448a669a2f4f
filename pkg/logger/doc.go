// Package logger builds slog loggers with context-aware attribute
// injection.
//
// The factory produces JSON output for production and text output for
// development. Context extractors registered at construction time pull
// request-scoped values, such as the bound tenant schema, into every log
// record without each call site having to repeat them.
package logger
