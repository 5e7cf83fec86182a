package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dilcore/template-agent/internal/api/docs"
	"github.com/dilcore/template-agent/internal/api/middleware"
	modulebuilderapi "github.com/dilcore/template-agent/internal/api/modulebuilder"
	personaapi "github.com/dilcore/template-agent/internal/api/persona"
	"github.com/dilcore/template-agent/internal/entity"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// HealthInfo is the static identity reported by the health endpoint.
type HealthInfo struct {
	AppName string
	Version string
	Model   string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	builderHandler *modulebuilderapi.Handler,
	personaHandler *personaapi.Handler,
	health HealthInfo,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&entity.HealthResponse{
			Status:  "healthy",
			AppName: health.AppName,
			Version: health.Version,
			Model:   health.Model,
		})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(gr chi.Router) {
			gr.Use(chimiddleware.Timeout(requestTimeout))
			modulebuilderapi.RegisterRoutes(gr, builderHandler)
			personaapi.RegisterRoutes(gr, personaHandler)
		})

		// SSE routes run without the timeout middleware; generation streams
		// legitimately outlive the default request deadline.
		modulebuilderapi.RegisterStreamRoutes(api, builderHandler)
	})

	return r
}
