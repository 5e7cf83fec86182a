package agent

import (
	"context"
	"strings"

	"github.com/dilcore/template-agent/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	providerErrorMessage = "Unable to communicate with AI provider"
	parsingErrorMessage  = "Unable to parse the generated template response"
	doneMessage          = "Stream completed"
)

// streamProcessor reads model fragments, classifies each one as thinking or
// content, relays it immediately as a stream event, and parses the
// accumulated text into the terminal template event when the stream ends.
//
// Classification is sticky in one direction only: the stream starts in
// thinking mode and flips to content on the first fragment the classifier
// does not mark as thinking. It never flips back; reasoning tokens arriving
// after content are treated as content.
type streamProcessor struct {
	classifier Classifier
	session    *SessionContext
}

func newStreamProcessor(classifier Classifier, session *SessionContext) *streamProcessor {
	return &streamProcessor{classifier: classifier, session: session}
}

// Run consumes fragments until the channel closes or the context is
// cancelled, writing events to out. It closes out before returning.
func (p *streamProcessor) Run(ctx context.Context, fragments <-chan entity.Fragment, out chan<- entity.StreamEvent) {
	defer close(out)

	var accumulated strings.Builder
	contentSeen := false

	for fragment := range fragments {
		if fragment.Err != nil {
			ctxzap.Error(ctx, "provider stream failed", zap.Error(fragment.Err))
			p.emit(ctx, out, entity.NewStreamEvent(entity.EventError, providerErrorMessage))
			return
		}

		text := fragment.Text()
		if text == "" {
			continue
		}

		mode := entity.EventContent
		if !contentSeen && p.classifier.IsThinking(fragment) {
			mode = entity.EventThinking
		} else {
			contentSeen = true
		}

		accumulated.WriteString(text)

		if !p.emit(ctx, out, entity.NewStreamEvent(mode, text)) {
			return
		}
	}

	if ctx.Err() != nil {
		return
	}

	result, err := ParseGeneration(accumulated.String())
	if err != nil {
		ctxzap.Error(ctx, "failed to parse generated template", zap.Error(err))
		p.emit(ctx, out, entity.NewStreamEvent(entity.EventError, parsingErrorMessage))
		return
	}

	// Streamed generations ground later prompts the same way single-shot
	// ones do.
	if p.session != nil {
		p.session.Append(result.Template.TemplateName)
	}

	ctxzap.Info(ctx, "streaming generation completed",
		zap.String("template_id", result.Template.TemplateID),
	)

	if !p.emit(ctx, out, entity.NewStreamEvent(entity.EventTemplate, result)) {
		return
	}
	p.emit(ctx, out, entity.NewStreamEvent(entity.EventDone, doneMessage))
}

// emit reports false when the context was cancelled before the event could
// be delivered.
func (p *streamProcessor) emit(ctx context.Context, out chan<- entity.StreamEvent, event entity.StreamEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
