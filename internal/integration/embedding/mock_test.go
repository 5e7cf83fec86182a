package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockConnector(t *testing.T) {
	ctx := context.Background()
	mock := NewMockConnector(zap.NewNop())

	t.Run("deterministic per input", func(t *testing.T) {
		a, err := mock.Embed(ctx, "customer record")
		require.NoError(t, err)
		b, err := mock.Embed(ctx, "customer record")
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("different inputs diverge", func(t *testing.T) {
		a, err := mock.Embed(ctx, "customer record")
		require.NoError(t, err)
		b, err := mock.Embed(ctx, "order history")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("vectors are unit length", func(t *testing.T) {
		vector, err := mock.Embed(ctx, "anything")
		require.NoError(t, err)
		require.Len(t, vector, mockDimensions)

		var norm float64
		for _, v := range vector {
			norm += v * v
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
	})
}
