package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/dilcore/template-agent/internal/config"
	"github.com/dilcore/template-agent/internal/entity"
	"github.com/dilcore/template-agent/internal/integration/common"
	pkghttp "github.com/dilcore/template-agent/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible embeddings API. Vectors are
// cached per input text; similarity queries frequently repeat the same
// prompt within a session.
type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		cache:     gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		config:    cfg,
		logger:    logger,
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for the given text. Failures map to
// entity.ErrProviderUnavailable.
func (c *Connector) Embed(ctx context.Context, text string) ([]float64, error) {
	if cached, ok := c.cache.Get(text); ok {
		return cached.([]float64), nil
	}

	ctxzap.Debug(ctx, "requesting embedding",
		zap.String("model", c.config.Model),
		zap.Int("text_length", len(text)),
	)

	req := embeddingsRequest{
		Model: c.config.Model,
		Input: []string{text},
	}

	var resp embeddingsResponse
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbeddingsEndpoint, req, &resp)
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		ctxzap.Error(ctx, "embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entity.ErrProviderUnavailable, err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		ctxzap.Error(ctx, "embedding response contained no vectors")
		return nil, fmt.Errorf("%w: empty embedding response", entity.ErrProviderUnavailable)
	}

	vector := resp.Data[0].Embedding
	c.cache.Set(text, vector, gocache.DefaultExpiration)

	return vector, nil
}
