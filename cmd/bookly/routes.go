package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookly-hq/bookly/pkg/schemarouter"
	"github.com/bookly-hq/bookly/pkg/tenant"
)

// mountTenantRoutes mounts the tenant-scoped routes. Business endpoints
// hang off this group; every request here runs with a bound tenant and
// queries route through the schema-switching source.
func mountTenantRoutes(r chi.Router, source *schemarouter.Source) {
	// Returns the bound tenant plus the schema the database actually
	// reports, making the routing observable end to end.
	r.Get("/api/me/tenant", func(w http.ResponseWriter, req *http.Request) {
		bound := tenant.MustFromContext(req.Context())

		conn, err := source.Acquire(req.Context())
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer conn.Release()

		var currentSchema string
		if err := conn.QueryRow(req.Context(), `SELECT current_schema()`).Scan(&currentSchema); err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tenant":         bound,
			"current_schema": currentSchema,
		})
	})
}
