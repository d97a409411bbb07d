package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coffee-diagnosis/internal/api/rest/handler"
	mw "coffee-diagnosis/internal/api/rest/middleware"
	"coffee-diagnosis/internal/api/rest/response"
)

// Dependencies holds all handler dependencies for the router.
type Dependencies struct {
	HealthHandler http.HandlerFunc
	Diagnoses     *handler.Diagnoses
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	if d := deps.Diagnoses; d != nil {
		r.Route("/api/v1/diagnoses", func(r chi.Router) {
			r.Post("/", d.Create)
			r.Get("/", d.List)
			r.Get("/{id}", d.Get)
			r.Delete("/{id}", d.Delete)
			r.Get("/{id}/export", d.Export)
		})
	}

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
