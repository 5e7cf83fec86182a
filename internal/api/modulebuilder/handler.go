package modulebuilder

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
	agent     GeneratorAgent
	validator *validator.Validator
}

func NewHandler(agent GeneratorAgent, validator *validator.Validator) *Handler {
	return &Handler{
		agent:     agent,
		validator: validator,
	}
}

// Generate handles POST /module-builder/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Generate")

	req, ok := h.decodeRequest(ctx, w, r)
	if !ok {
		return
	}

	ctxzap.Info(ctx, "generating template", zap.Int("prompt_length", len(req.Prompt)))

	result, err := h.agent.Generate(ctx, req.Prompt)
	if err != nil {
		h.handleGenerationError(ctx, w, r, err)
		return
	}

	// The single-shot endpoint returns the template object itself; the
	// explanation only travels with the stream's template event.
	h.respondJSON(ctx, w, http.StatusOK, result.Template)
}

// GenerateStream handles POST /module-builder/generate-stream
func (h *Handler) GenerateStream(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateStream")

	req, ok := h.decodeRequest(ctx, w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		ctxzap.Error(ctx, "response writer does not support streaming")
		problem.GenerationFailed(r, "Streaming is not supported by this server configuration").Write(ctx, w)
		return
	}

	ctxzap.Info(ctx, "starting generation stream", zap.Int("prompt_length", len(req.Prompt)))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := h.agent.GenerateStream(ctx, req.Prompt)

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			ctxzap.Error(ctx, "failed to encode stream event", zap.Error(err))
			continue
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			// Client disconnected; the producer observes the cancelled
			// context and stops on its own.
			ctxzap.Info(ctx, "client disconnected from stream", zap.Error(err))
			return
		}
		flusher.Flush()
	}

	ctxzap.Debug(ctx, "generation stream closed")
}

func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (*entity.GenerateRequest, bool) {
	var req entity.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		problem.BadRequest(r, "Request body must be valid JSON").Write(ctx, w)
		return nil, false
	}

	if err := h.validator.Validate(&req); err != nil {
		ctxzap.Warn(ctx, "request validation failed", zap.Error(err))

		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			problem.Validation(r, "Request validation failed", verr.Fields).Write(ctx, w)
		} else {
			problem.BadRequest(r, "Request validation failed").Write(ctx, w)
		}
		return nil, false
	}

	return &req, true
}

func (h *Handler) handleGenerationError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	ctxzap.Error(ctx, "template generation failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrProviderUnavailable):
		problem.ProviderUnavailable(r, "Unable to communicate with AI provider").Write(ctx, w)
	case errors.Is(err, entity.ErrTemplateParsing):
		problem.ParsingFailed(r, "Unable to parse the generated template response").Write(ctx, w)
	default:
		problem.GenerationFailed(r, "An unexpected error occurred during template generation").Write(ctx, w)
	}
}

func (h *Handler) respondJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		ctxzap.Error(ctx, "failed to encode response", zap.Error(err))
	}
}
