package agent

import (
	"context"
	"fmt"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/dilcore/template-agent/internal/vectorstore"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const relatedEntitiesTopK = 5

// LLMConnector is the model client the agents drive.
type LLMConnector interface {
	Model() string
	Complete(ctx context.Context, messages []entity.Message) (string, error)
	Stream(ctx context.Context, messages []entity.Message) (<-chan entity.Fragment, error)
}

// ModuleBuilderAgent generates structured templates from natural-language
// prompts, grounding each generation on previously indexed entities and the
// names produced earlier in the session.
type ModuleBuilderAgent struct {
	llm         LLMConnector
	entityIndex *vectorstore.Index
	session     *SessionContext
	processor   *streamProcessor
}

func NewModuleBuilderAgent(
	llm LLMConnector,
	entityIndex *vectorstore.Index,
	session *SessionContext,
	classifier Classifier,
) *ModuleBuilderAgent {
	return &ModuleBuilderAgent{
		llm:         llm,
		entityIndex: entityIndex,
		session:     session,
		processor:   newStreamProcessor(classifier, session),
	}
}

func (a *ModuleBuilderAgent) Model() string {
	return a.llm.Model()
}

// Generate produces a validated template for the prompt in a single
// request/response exchange.
func (a *ModuleBuilderAgent) Generate(ctx context.Context, prompt string) (*entity.StreamingResult, error) {
	ctxzap.Info(ctx, "starting template generation", zap.Int("prompt_length", len(prompt)))

	messages := buildGenerationMessages(prompt, a.relatedEntities(ctx, prompt))

	raw, err := a.llm.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("completing generation request: %w", err)
	}

	result, err := ParseGeneration(raw)
	if err != nil {
		ctxzap.Error(ctx, "failed to parse generated template", zap.Error(err))
		return nil, err
	}

	a.session.Append(result.Template.TemplateName)

	ctxzap.Info(ctx, "template generation completed",
		zap.String("template_id", result.Template.TemplateID),
	)

	return result, nil
}

// GenerateStream produces the event stream for the prompt. The returned
// channel closes after the terminal template/done pair or a single error
// event.
func (a *ModuleBuilderAgent) GenerateStream(ctx context.Context, prompt string) <-chan entity.StreamEvent {
	out := make(chan entity.StreamEvent)

	ctxzap.Info(ctx, "starting streaming generation", zap.Int("prompt_length", len(prompt)))

	messages := buildStreamingMessages(prompt, a.relatedEntities(ctx, prompt))

	fragments, err := a.llm.Stream(ctx, messages)
	if err != nil {
		ctxzap.Error(ctx, "failed to open provider stream", zap.Error(err))
		go func() {
			defer close(out)
			select {
			case out <- entity.NewStreamEvent(entity.EventError, providerErrorMessage):
			case <-ctx.Done():
			}
		}()
		return out
	}

	go a.processor.Run(ctx, fragments, out)

	return out
}

// relatedEntities merges best-effort retrieval with the session context.
// Retrieval failures never block generation.
func (a *ModuleBuilderAgent) relatedEntities(ctx context.Context, prompt string) []string {
	related := a.session.Snapshot()

	if a.entityIndex == nil {
		return related
	}

	seen := make(map[string]struct{}, len(related))
	for _, name := range related {
		seen[name] = struct{}{}
	}

	for _, match := range a.entityIndex.Search(ctx, prompt, nil, relatedEntitiesTopK) {
		name, _ := match.Document.Metadata["name"].(string)
		if name == "" {
			name = match.Document.Text
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		related = append(related, name)
	}

	return related
}
