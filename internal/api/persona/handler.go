package persona

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/dilcore/template-agent/internal/pkg/logger"
	"github.com/dilcore/template-agent/internal/pkg/problem"
	"github.com/dilcore/template-agent/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	agent     PersonaAgent
	validator *validator.Validator
}

func NewHandler(agent PersonaAgent, validator *validator.Validator) *Handler {
	return &Handler{
		agent:     agent,
		validator: validator,
	}
}

// Resolve handles POST /persona/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Resolve")

	var req entity.PersonaRequest
	if !h.decodeAndValidate(ctx, w, r, &req) {
		return
	}

	ctxzap.Info(ctx, "resolving persona request", zap.Int("request_length", len(req.UserRequest)))

	h.respondJSON(ctx, w, http.StatusOK, h.agent.Resolve(ctx, &req))
}

// IndexMetadata handles POST /persona/index-metadata
func (h *Handler) IndexMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "IndexMetadata")

	var req entity.MetadataIndexRequest
	if !h.decodeAndValidate(ctx, w, r, &req) {
		return
	}

	id, err := h.agent.IndexMetadata(ctx, req.Metadata, req.MetadataType)
	if err != nil {
		h.handleIndexError(ctx, w, r, err)
		return
	}

	h.respondJSON(ctx, w, http.StatusCreated, &entity.MetadataIndexResponse{
		Success:    true,
		Message:    fmt.Sprintf("Indexed %s metadata", req.MetadataType),
		MetadataID: id,
	})
}

// IndexData handles POST /persona/index-data
func (h *Handler) IndexData(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "IndexData")

	var req entity.DataIndexRequest
	if !h.decodeAndValidate(ctx, w, r, &req) {
		return
	}

	id, err := h.agent.IndexData(ctx, req.Data, req.EntityType)
	if err != nil {
		h.handleIndexError(ctx, w, r, err)
		return
	}

	h.respondJSON(ctx, w, http.StatusCreated, &entity.DataIndexResponse{
		Success: true,
		Message: fmt.Sprintf("Indexed %s data record", req.EntityType),
		DataID:  id,
	})
}

// MetadataTypes handles GET /persona/metadata-types
func (h *Handler) MetadataTypes(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "MetadataTypes")

	h.respondJSON(ctx, w, http.StatusOK, &entity.MetadataTypesResponse{
		Types: h.agent.MetadataTypes(),
	})
}

func (h *Handler) decodeAndValidate(ctx context.Context, w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		problem.BadRequest(r, "Request body must be valid JSON").Write(ctx, w)
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		ctxzap.Warn(ctx, "request validation failed", zap.Error(err))

		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			problem.Validation(r, "Request validation failed", verr.Fields).Write(ctx, w)
		} else {
			problem.BadRequest(r, "Request validation failed").Write(ctx, w)
		}
		return false
	}

	return true
}

func (h *Handler) handleIndexError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	ctxzap.Error(ctx, "indexing failed", zap.Error(err))

	if errors.Is(err, entity.ErrProviderUnavailable) {
		problem.ProviderUnavailable(r, "Unable to communicate with AI provider").Write(ctx, w)
		return
	}

	problem.GenerationFailed(r, "An unexpected error occurred while indexing").Write(ctx, w)
}

func (h *Handler) respondJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		ctxzap.Error(ctx, "failed to encode response", zap.Error(err))
	}
}
