package modulebuilder

import (
	"context"

	"github.com/dilcore/template-agent/internal/entity"
)

type GeneratorAgent interface {
	Model() string
	Generate(ctx context.Context, prompt string) (*entity.StreamingResult, error)
	GenerateStream(ctx context.Context, prompt string) <-chan entity.StreamEvent
}
