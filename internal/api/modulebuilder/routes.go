package modulebuilder

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the request/response generation routes. The
// /metadata aliases are kept for callers of the legacy paths.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/module-builder/generate", h.Generate)
	r.Post("/metadata/generate", h.Generate)
}

// RegisterStreamRoutes registers the SSE generation routes. They are
// registered separately so the server can exempt them from the request
// timeout middleware.
func RegisterStreamRoutes(r chi.Router, h *Handler) {
	r.Post("/module-builder/generate-stream", h.GenerateStream)
	r.Post("/metadata/generate-stream", h.GenerateStream)
}
