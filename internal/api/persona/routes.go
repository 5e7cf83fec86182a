package persona

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers persona routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/persona", func(r chi.Router) {
		r.Post("/resolve", h.Resolve)
		r.Post("/index-metadata", h.IndexMetadata)
		r.Post("/index-data", h.IndexData)
		r.Get("/metadata-types", h.MetadataTypes)
	})
}
