package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/dilcore/template-agent/internal/config"
	"github.com/dilcore/template-agent/internal/entity"
	"github.com/dilcore/template-agent/internal/integration/common"
	pkghttp "github.com/dilcore/template-agent/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible chat-completions API.
type Connector struct {
	config          config.LLMConnectorConfig
	connector       *pkghttp.Connector
	streamConnector *pkghttp.Connector
	logger          *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		// The overall request timeout would cut long generation streams
		// short; streams rely on context cancellation and the response
		// header timeout instead.
		streamConnector: common.NewStreamConnector(cfg.HTTPClientConfig, logger),
		config:          cfg,
		logger:          logger,
	}
}

// Model returns the configured model identifier.
func (c *Connector) Model() string {
	return c.config.Model
}

// Wire format for the chat-completions endpoint.

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []entity.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	Stream      bool             `json:"stream,omitempty"`
}

type chatDelta struct {
	Content string `json:"content"`
	// Thinking output arrives in one of two optional containers depending
	// on the provider.
	ReasoningContent string `json:"reasoning_content"`
	Reasoning        string `json:"reasoning"`
}

type chatChoice struct {
	Message      *chatDelta `json:"message,omitempty"`
	Delta        *chatDelta `json:"delta,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Complete performs a single-shot chat completion and returns the full
// response text. Any transport or provider failure maps to
// entity.ErrProviderUnavailable.
func (c *Connector) Complete(ctx context.Context, messages []entity.Message) (string, error) {
	ctxzap.Info(ctx, "invoking chat completion",
		zap.String("model", c.config.Model),
		zap.Int("message_count", len(messages)),
	)

	req := chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
	}

	var resp chatResponse
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp)
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", entity.ErrProviderUnavailable, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		ctxzap.Error(ctx, "chat completion returned no choices")
		return "", fmt.Errorf("%w: empty completion response", entity.ErrProviderUnavailable)
	}

	content := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "chat completion succeeded", zap.Int("content_length", len(content)))

	return content, nil
}

// Stream opens a streaming chat completion and returns a channel of
// fragments. The channel is closed when the provider stream ends; a stream
// failure is delivered as a final fragment with Err set.
func (c *Connector) Stream(ctx context.Context, messages []entity.Message) (<-chan entity.Fragment, error) {
	ctxzap.Info(ctx, "opening streaming chat completion",
		zap.String("model", c.config.Model),
		zap.Int("message_count", len(messages)),
	)

	req := chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		Stream:      true,
	}

	body, err := c.streamConnector.DoStreamRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req)
	if err != nil {
		ctxzap.Error(ctx, "failed to open completion stream", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entity.ErrProviderUnavailable, err)
	}

	return readSSE(ctx, body), nil
}

// readSSE parses an OpenAI-style SSE body ("data: {json}" lines terminated
// by "data: [DONE]") into a fragment channel.
func readSSE(ctx context.Context, body io.ReadCloser) <-chan entity.Fragment {
	ch := make(chan entity.Fragment)
	go func() {
		defer body.Close()
		defer close(ch)

		reader := bufio.NewReader(body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					emit(ctx, ch, entity.Fragment{
						Err: fmt.Errorf("%w: %w", entity.ErrProviderUnavailable, err),
					})
				}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}

			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var resp chatResponse
			if err := json.Unmarshal([]byte(data), &resp); err != nil {
				emit(ctx, ch, entity.Fragment{
					Err: fmt.Errorf("%w: malformed stream payload: %w", entity.ErrProviderUnavailable, err),
				})
				return
			}

			for _, choice := range resp.Choices {
				if choice.Delta == nil {
					continue
				}
				frag := entity.Fragment{Content: choice.Delta.Content}
				if choice.Delta.ReasoningContent != "" {
					frag.Reasoning = choice.Delta.ReasoningContent
				} else if choice.Delta.Reasoning != "" {
					frag.Reasoning = choice.Delta.Reasoning
				}
				if !emit(ctx, ch, frag) {
					return
				}
			}
		}
	}()
	return ch
}

func emit(ctx context.Context, ch chan<- entity.Fragment, frag entity.Fragment) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- frag:
		return true
	}
}
