package llm

import (
	"context"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockCompletion = "```json\n" +
	`{
  "template_id": "mock-contact-form",
  "template_name": "Contact Form",
  "description": "Mock template for local development",
  "status": "draft",
  "sections": [
    {
      "section_id": "contact-details",
      "title": "Contact Details",
      "fields": [
        {"name": "email", "type": "string", "required": true, "description": "Email address"},
        {"name": "message", "type": "string", "required": true}
      ]
    }
  ]
}` + "\n```\n\nEXPLANATION:\nMock explanation produced without calling a provider."

// MockConnector is a provider stand-in for local development and tests.
type MockConnector struct {
	logger *zap.Logger
	model  string
}

func NewMockConnector(logger *zap.Logger, model string) *MockConnector {
	return &MockConnector{
		logger: logger,
		model:  model,
	}
}

func (m *MockConnector) Model() string {
	return m.model
}

func (m *MockConnector) Complete(ctx context.Context, messages []entity.Message) (string, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion",
		zap.Int("message_count", len(messages)),
	)
	return mockCompletion, nil
}

func (m *MockConnector) Stream(ctx context.Context, messages []entity.Message) (<-chan entity.Fragment, error) {
	ctxzap.Info(ctx, "[MOCK] streaming chat completion",
		zap.Int("message_count", len(messages)),
	)

	ch := make(chan entity.Fragment)
	go func() {
		defer close(ch)
		fragments := []entity.Fragment{
			{Reasoning: "Considering the requested structure."},
			{Content: mockCompletion},
		}
		for _, frag := range fragments {
			select {
			case <-ctx.Done():
				return
			case ch <- frag:
			}
		}
	}()
	return ch, nil
}
