package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"go.uber.org/zap"
)

const mockDimensions = 32

// MockConnector produces deterministic pseudo-embeddings derived from the
// input text, so similarity search stays stable across runs without any
// external provider.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (c *MockConnector) Embed(_ context.Context, text string) ([]float64, error) {
	c.logger.Debug("mock embedding", zap.Int("text_length", len(text)))

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vector := make([]float64, mockDimensions)
	var norm float64
	for i := range vector {
		// Simple xorshift over the seed keeps components deterministic.
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		vector[i] = float64(int64(seed%2000)-1000) / 1000.0
		norm += vector[i] * vector[i]
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector, nil
}
