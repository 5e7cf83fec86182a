package problem

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const typeBase = "https://api.dilcore.ai/problems"

// Details is an RFC 7807 problem-details error response.
type Details struct {
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// New builds a problem-details object for the given request path.
func New(r *http.Request, problemType, title string, status int, detail string) *Details {
	return &Details{
		Type:     typeBase + "/" + problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
}

// WithErrors attaches a field-level error map.
func (d *Details) WithErrors(errors map[string][]string) *Details {
	d.Errors = errors
	return d
}

// Write serializes the problem object with the application/problem+json
// content type.
func (d *Details) Write(ctx context.Context, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(d.Status)
	if err := json.NewEncoder(w).Encode(d); err != nil {
		ctxzap.Error(ctx, "failed to encode problem details", zap.Error(err))
	}
}

// Convenience constructors for the error taxonomy.

func Validation(r *http.Request, detail string, errors map[string][]string) *Details {
	return New(r, "validation-error", "Request Validation Error", http.StatusUnprocessableEntity, detail).
		WithErrors(errors)
}

func ProviderUnavailable(r *http.Request, detail string) *Details {
	return New(r, "llm-provider-error", "LLM Provider Error", http.StatusBadGateway, detail)
}

func ParsingFailed(r *http.Request, detail string) *Details {
	return New(r, "parsing-error", "Parsing Error", http.StatusInternalServerError, detail)
}

func GenerationFailed(r *http.Request, detail string) *Details {
	return New(r, "generation-error", "Template Generation Error", http.StatusInternalServerError, detail)
}

func BadRequest(r *http.Request, detail string) *Details {
	return New(r, "bad-request", "Bad Request", http.StatusBadRequest, detail)
}
