package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bookly-hq/bookly/pkg/logger"
)

// HealthCheckHandler serves liveness and readiness probes. Without
// dependency functions it answers 200 "ALIVE". With them it runs each
// check and answers 200 "READY", or 500 "NOT_READY" when any fails.
func HealthCheckHandler(ctx context.Context, log *slog.Logger, funcs ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(funcs) == 0 {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ALIVE"))
			return
		}

		for _, f := range funcs {
			if err := f(ctx); err != nil {
				log.ErrorContext(ctx, "Readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
