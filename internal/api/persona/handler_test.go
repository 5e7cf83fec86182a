package persona

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

type fakePersonaAgent struct {
	response *entity.PersonaResponse
	indexID  string
	indexErr error
}

func (f *fakePersonaAgent) Resolve(context.Context, *entity.PersonaRequest) *entity.PersonaResponse {
	return f.response
}

func (f *fakePersonaAgent) IndexMetadata(context.Context, map[string]any, string) (string, error) {
	return f.indexID, f.indexErr
}

func (f *fakePersonaAgent) IndexData(context.Context, map[string]any, string) (string, error) {
	return f.indexID, f.indexErr
}

func (f *fakePersonaAgent) MetadataTypes() []string {
	return []string{"form", "view", "entity", "projection", "relationship", "workflow"}
}

func doRequest(t *testing.T, handler http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/persona/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestResolveHandler(t *testing.T) {
	t.Run("successful resolution", func(t *testing.T) {
		agent := &fakePersonaAgent{response: &entity.PersonaResponse{
			Resolution: entity.FormViewResolution{
				Type: "form", ID: "contact-form", Name: "Contact Form", Operation: "read",
			},
			SuggestedChanges: []entity.DataChange{},
			Explanation:      "matched the contact form",
		}}
		h := NewHandler(agent, validator.New())

		rec := doRequest(t, h.Resolve, http.MethodPost, `{"user_request": "open the contact form"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp entity.PersonaResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "contact-form", resp.Resolution.ID)
		assert.Equal(t, "form", resp.Resolution.Type)
	})

	t.Run("missing user_request returns 422", func(t *testing.T) {
		h := NewHandler(&fakePersonaAgent{}, validator.New())

		rec := doRequest(t, h.Resolve, http.MethodPost, `{}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		errs, ok := body["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, errs, "user_request")
	})
}

func TestIndexHandlers(t *testing.T) {
	t.Run("index metadata returns 201", func(t *testing.T) {
		h := NewHandler(&fakePersonaAgent{indexID: "form-1"}, validator.New())

		rec := doRequest(t, h.IndexMetadata, http.MethodPost,
			`{"metadata": {"id": "form-1", "name": "Contact Form"}, "metadata_type": "form"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp entity.MetadataIndexResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "form-1", resp.MetadataID)
	})

	t.Run("unknown metadata type returns 422", func(t *testing.T) {
		h := NewHandler(&fakePersonaAgent{}, validator.New())

		rec := doRequest(t, h.IndexMetadata, http.MethodPost,
			`{"metadata": {"id": "x"}, "metadata_type": "report"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("index data returns 201", func(t *testing.T) {
		h := NewHandler(&fakePersonaAgent{indexID: "rec-9"}, validator.New())

		rec := doRequest(t, h.IndexData, http.MethodPost,
			`{"data": {"id": "rec-9", "email": "a@b.c"}, "entity_type": "customer"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp entity.DataIndexResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "rec-9", resp.DataID)
	})

	t.Run("embedding failure maps to 502", func(t *testing.T) {
		h := NewHandler(&fakePersonaAgent{
			indexErr: fmt.Errorf("embed: %w", entity.ErrProviderUnavailable),
		}, validator.New())

		rec := doRequest(t, h.IndexData, http.MethodPost,
			`{"data": {"id": "rec-9"}, "entity_type": "customer"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestMetadataTypesHandler(t *testing.T) {
	h := NewHandler(&fakePersonaAgent{}, validator.New())

	rec := doRequest(t, h.MetadataTypes, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.MetadataTypesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"form", "view", "entity", "projection", "relationship", "workflow"}, resp.Types)
}
