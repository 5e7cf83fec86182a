package agent

import "github.com/dilcore/template-agent/internal/entity"

// Classifier decides whether a stream fragment belongs to the model's
// reasoning output. Implementations are model-family specific; providers
// signal reasoning through different metadata containers.
type Classifier interface {
	IsThinking(f entity.Fragment) bool
}

// OpenAICompatClassifier classifies fragments from OpenAI-compatible
// providers, which deliver reasoning text in a delta field separate from
// regular content.
type OpenAICompatClassifier struct{}

func NewOpenAICompatClassifier() *OpenAICompatClassifier {
	return &OpenAICompatClassifier{}
}

func (OpenAICompatClassifier) IsThinking(f entity.Fragment) bool {
	return f.Reasoning != "" && f.Content == ""
}
