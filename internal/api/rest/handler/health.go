package handler

import (
	"context"
	"net/http"
	"time"

	"coffee-diagnosis/internal/api/rest/response"
)

// Check проверяет доступность одной зависимости.
type Check func(ctx context.Context) error

const healthCheckTimeout = 3 * time.Second

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
func NewHealthHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		degraded := false
		for name, check := range checks {
			results[name] = "ok"
			if err := check(ctx); err != nil {
				results[name] = "degraded"
				degraded = true
			}
		}

		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", results)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": results,
		})
	}
}
