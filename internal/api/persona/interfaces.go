package persona

import (
	"context"

	"github.com/dilcore/template-agent/internal/entity"
)

type PersonaAgent interface {
	Resolve(ctx context.Context, req *entity.PersonaRequest) *entity.PersonaResponse
	IndexMetadata(ctx context.Context, metadata map[string]any, metadataType string) (string, error)
	IndexData(ctx context.Context, data map[string]any, entityType string) (string, error)
	MetadataTypes() []string
}
