package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hnp180493/gloss/internal/glossaryservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *glossaryservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Lookup / query.
	r.Get("/definitions/lookup", h.Lookup)
	r.Get("/definitions", h.ListDefinitions)
	r.Get("/phrases", h.ListPhrases)
	r.Post("/scan", h.Scan)
	r.Get("/usages", h.Usages)

	// Definition CRUD.
	r.Post("/definitions", h.CreateDefinition)
	r.Put("/definitions", h.UpdateDefinition)
	r.Delete("/definitions", h.DeleteDefinition)

	// Index maintenance and classification.
	r.Post("/reload", h.Reload)
	r.Get("/files", h.ListFiles)
	r.Get("/files/classify", h.Classify)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
