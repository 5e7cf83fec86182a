package modulebuilder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/dilcore/template-agent/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	result *entity.StreamingResult
	err    error
	events []entity.StreamEvent
}

func (f *fakeAgent) Model() string { return "fake-model" }

func (f *fakeAgent) Generate(context.Context, string) (*entity.StreamingResult, error) {
	return f.result, f.err
}

func (f *fakeAgent) GenerateStream(context.Context, string) <-chan entity.StreamEvent {
	out := make(chan entity.StreamEvent)
	go func() {
		defer close(out)
		for _, event := range f.events {
			out <- event
		}
	}()
	return out
}

func sampleResult() *entity.StreamingResult {
	return &entity.StreamingResult{
		Template: &entity.Template{
			TemplateID:   "contact-form",
			TemplateName: "Contact Form",
			Description:  "A contact form",
			Status:       entity.StatusDraft,
		},
		Explanation: "kept it simple",
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/module-builder/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGenerateHandler(t *testing.T) {
	t.Run("successful generation returns the bare template", func(t *testing.T) {
		h := NewHandler(&fakeAgent{result: sampleResult()}, validator.New())

		rec := postJSON(t, h.Generate, `{"prompt": "a contact form"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "contact-form", body["template_id"])
		assert.Equal(t, "Contact Form", body["template_name"])
		assert.NotContains(t, body, "explanation")
		assert.NotContains(t, body, "template")
	})

	t.Run("missing prompt returns 422 with field errors", func(t *testing.T) {
		h := NewHandler(&fakeAgent{}, validator.New())

		rec := postJSON(t, h.Generate, `{}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decodeProblem(t, rec)
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, errs, "prompt")
	})

	t.Run("oversized prompt returns 422", func(t *testing.T) {
		h := NewHandler(&fakeAgent{}, validator.New())

		rec := postJSON(t, h.Generate, fmt.Sprintf(`{"prompt": %q}`, strings.Repeat("x", 4001)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		h := NewHandler(&fakeAgent{}, validator.New())

		rec := postJSON(t, h.Generate, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure returns 502 problem", func(t *testing.T) {
		h := NewHandler(&fakeAgent{err: fmt.Errorf("call: %w", entity.ErrProviderUnavailable)}, validator.New())

		rec := postJSON(t, h.Generate, `{"prompt": "a contact form"}`)
		require.Equal(t, http.StatusBadGateway, rec.Code)

		body := decodeProblem(t, rec)
		assert.Equal(t, "Unable to communicate with AI provider", body["detail"])
		assert.Contains(t, body["type"], "llm-provider-error")
	})

	t.Run("parsing failure returns 500 problem", func(t *testing.T) {
		h := NewHandler(&fakeAgent{err: fmt.Errorf("parse: %w", entity.ErrTemplateParsing)}, validator.New())

		rec := postJSON(t, h.Generate, `{"prompt": "a contact form"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeProblem(t, rec)
		assert.Contains(t, body["type"], "parsing-error")
	})

	t.Run("unexpected failure returns generic 500", func(t *testing.T) {
		h := NewHandler(&fakeAgent{err: fmt.Errorf("disk full")}, validator.New())

		rec := postJSON(t, h.Generate, `{"prompt": "a contact form"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeProblem(t, rec)
		assert.NotContains(t, body["detail"], "disk full")
	})
}

func TestGenerateStreamHandler(t *testing.T) {
	t.Run("SSE framing and headers", func(t *testing.T) {
		agent := &fakeAgent{events: []entity.StreamEvent{
			entity.NewStreamEvent(entity.EventThinking, "planning"),
			entity.NewStreamEvent(entity.EventContent, "{}"),
			entity.NewStreamEvent(entity.EventTemplate, sampleResult()),
			entity.NewStreamEvent(entity.EventDone, "Stream completed"),
		}}
		h := NewHandler(agent, validator.New())

		rec := postJSON(t, h.GenerateStream, `{"prompt": "a contact form"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

		frames := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
		require.Len(t, frames, 4)

		var types []string
		for _, frame := range frames {
			require.True(t, strings.HasPrefix(frame, "data: "))

			var event map[string]any
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &event))
			types = append(types, event["event_type"].(string))
		}
		assert.Equal(t, []string{"thinking", "content", "template", "done"}, types)
	})

	t.Run("error event terminates the stream", func(t *testing.T) {
		agent := &fakeAgent{events: []entity.StreamEvent{
			entity.NewStreamEvent(entity.EventError, "Unable to communicate with AI provider"),
		}}
		h := NewHandler(agent, validator.New())

		rec := postJSON(t, h.GenerateStream, `{"prompt": "a contact form"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"event_type":"error"`)
		assert.NotContains(t, rec.Body.String(), `"event_type":"done"`)
	})

	t.Run("validation failure happens before streaming", func(t *testing.T) {
		h := NewHandler(&fakeAgent{}, validator.New())

		rec := postJSON(t, h.GenerateStream, `{"prompt": ""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})
}
