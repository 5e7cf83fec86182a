package agent

import (
	"context"
	"fmt"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/dilcore/template-agent/internal/vectorstore"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	personaFormsTopK = 3
	personaViewsTopK = 3
	personaDataTopK  = 5
)

// PersonaAgent resolves natural-language requests against indexed metadata
// (forms, views, entities) and data records. It has read/write access to two
// indices: one for metadata documents, one for data records.
type PersonaAgent struct {
	llm           LLMConnector
	metadataIndex *vectorstore.Index
	dataIndex     *vectorstore.Index
}

func NewPersonaAgent(
	llm LLMConnector,
	metadataIndex *vectorstore.Index,
	dataIndex *vectorstore.Index,
) *PersonaAgent {
	return &PersonaAgent{
		llm:           llm,
		metadataIndex: metadataIndex,
		dataIndex:     dataIndex,
	}
}

// Resolve maps a user request to the most appropriate form or view and any
// relevant existing data. Retrieval is best-effort; an LLM failure degrades
// to a fallback response instead of an error.
func (a *PersonaAgent) Resolve(ctx context.Context, req *entity.PersonaRequest) *entity.PersonaResponse {
	ctxzap.Info(ctx, "resolving persona request",
		zap.Int("request_length", len(req.UserRequest)),
	)

	forms := a.metadataIndex.Search(ctx, req.UserRequest, map[string]string{"type": "form"}, personaFormsTopK)
	views := a.metadataIndex.Search(ctx, req.UserRequest, map[string]string{"type": "view"}, personaViewsTopK)
	data := a.dataIndex.Search(ctx, req.UserRequest, nil, personaDataTopK)

	metadataItems := make([]string, 0, len(forms)+len(views))
	for _, match := range forms {
		metadataItems = append(metadataItems, "Form: "+documentDisplayName(match.Document))
	}
	for _, match := range views {
		metadataItems = append(metadataItems, "View: "+documentDisplayName(match.Document))
	}

	explanation, err := a.llm.Complete(ctx, buildResolutionMessages(req.UserRequest, metadataItems))
	if err != nil {
		ctxzap.Error(ctx, "persona resolution LLM call failed", zap.Error(err))
		return &entity.PersonaResponse{
			Resolution: entity.FormViewResolution{
				Type:      "view",
				ID:        "error",
				Name:      "Error",
				Operation: "read",
			},
			SuggestedChanges: []entity.DataChange{},
			Explanation:      "Could not process request: " + providerErrorMessage,
		}
	}

	resolution := entity.FormViewResolution{
		Type:      "view",
		ID:        "default",
		Name:      "Default View",
		Operation: "read",
	}
	switch {
	case len(forms) > 0:
		resolution.Type = "form"
		resolution.ID = documentField(forms[0].Document, "id", "unknown")
		resolution.Name = documentField(forms[0].Document, "name", "Unknown")
	case len(views) > 0:
		resolution.ID = documentField(views[0].Document, "id", "unknown")
		resolution.Name = documentField(views[0].Document, "name", "Unknown")
	}

	response := &entity.PersonaResponse{
		Resolution:       resolution,
		SuggestedChanges: []entity.DataChange{},
		Explanation:      explanation,
	}
	if len(data) > 0 {
		if raw, ok := data[0].Document.Metadata["raw"].(map[string]any); ok {
			response.ExistingData = raw
		}
	}

	return response
}

// IndexMetadata stores a metadata document into the metadata index under a
// searchable summary of its key properties.
func (a *PersonaAgent) IndexMetadata(ctx context.Context, metadata map[string]any, metadataType string) (string, error) {
	doc := vectorstore.Document{
		ID:   stringValue(metadata, "id"),
		Text: buildMetadataSearchText(metadata, metadataType),
		Metadata: map[string]any{
			"type": metadataType,
			"id":   stringValue(metadata, "id"),
			"name": stringValue(metadata, "name"),
			"raw":  metadata,
		},
	}

	id, err := a.metadataIndex.Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("indexing %s metadata: %w", metadataType, err)
	}

	ctxzap.Info(ctx, "indexed metadata document",
		zap.String("metadata_type", metadataType),
		zap.String("id", id),
	)

	return id, nil
}

// IndexData stores a data record into the data index. Only scalar fields
// contribute to the searchable text.
func (a *PersonaAgent) IndexData(ctx context.Context, data map[string]any, entityType string) (string, error) {
	doc := vectorstore.Document{
		ID:   stringValue(data, "id"),
		Text: buildDataSearchText(data, entityType),
		Metadata: map[string]any{
			"entity_type": entityType,
			"id":          stringValue(data, "id"),
			"raw":         data,
		},
	}

	id, err := a.dataIndex.Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("indexing %s data record: %w", entityType, err)
	}

	ctxzap.Info(ctx, "indexed data record",
		zap.String("entity_type", entityType),
		zap.String("id", id),
	)

	return id, nil
}

// MetadataTypes lists the metadata types the index accepts.
func (a *PersonaAgent) MetadataTypes() []string {
	types := make([]string, len(entity.MetadataTypes))
	copy(types, entity.MetadataTypes)
	return types
}

func documentDisplayName(doc vectorstore.Document) string {
	if name, ok := doc.Metadata["name"].(string); ok && name != "" {
		return name
	}
	if id, ok := doc.Metadata["id"].(string); ok && id != "" {
		return id
	}
	return "unknown"
}

func documentField(doc vectorstore.Document, key, fallback string) string {
	if value, ok := doc.Metadata[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func stringValue(m map[string]any, key string) string {
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}
