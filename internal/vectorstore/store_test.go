package vectorstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// wordEmbedder gives identical vectors to identical texts and nearly
// orthogonal vectors to unrelated ones, which is enough to test ranking.
type wordEmbedder struct {
	err error
}

func (e wordEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if e.err != nil {
		return nil, e.err
	}

	vector := make([]float64, 64)
	for i := 0; i < len(text); i++ {
		vector[int(text[i])%64]++
	}
	return vector, nil
}

func TestIndexAddAndSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("add assigns id when missing", func(t *testing.T) {
		idx := NewIndex("test", t.TempDir(), wordEmbedder{}, zap.NewNop())

		id, err := idx.Add(ctx, Document{Text: "customer record"})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, 1, idx.Size())
	})

	t.Run("add rejects empty text", func(t *testing.T) {
		idx := NewIndex("test", t.TempDir(), wordEmbedder{}, zap.NewNop())

		_, err := idx.Add(ctx, Document{ID: "x"})
		require.Error(t, err)
	})

	t.Run("add upserts by id", func(t *testing.T) {
		idx := NewIndex("test", t.TempDir(), wordEmbedder{}, zap.NewNop())

		_, err := idx.Add(ctx, Document{ID: "doc-1", Text: "first version"})
		require.NoError(t, err)
		_, err = idx.Add(ctx, Document{ID: "doc-1", Text: "second version"})
		require.NoError(t, err)

		assert.Equal(t, 1, idx.Size())
	})

	t.Run("search ranks the closest document first", func(t *testing.T) {
		idx := NewIndex("test", t.TempDir(), wordEmbedder{}, zap.NewNop())

		_, err := idx.Add(ctx, Document{ID: "a", Text: "customer contact form"})
		require.NoError(t, err)
		_, err = idx.Add(ctx, Document{ID: "b", Text: "zzzz qqqq xxxx"})
		require.NoError(t, err)

		results := idx.Search(ctx, "customer contact form", nil, 2)
		require.Len(t, results, 2)
		assert.Equal(t, "a", results[0].Document.ID)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("search respects topK", func(t *testing.T) {
		idx := NewIndex("test", t.TempDir(), wordEmbedder{}, zap.NewNop())

		for _, text := range []string{"one", "two", "three"} {
			_, err := idx.Add(ctx, Document{Text: text})
			require.NoError(t, err)
		}

		assert.Len(t, idx.Search(ctx, "one", nil, 2), 2)
		assert.Empty(t, idx.Search(ctx, "one", nil, 0))
	})

	t.Run("metadata filter restricts results", func(t *testing.T) {
		idx := NewIndex("test", t.TempDir(), wordEmbedder{}, zap.NewNop())

		_, err := idx.Add(ctx, Document{Text: "customer form", Metadata: map[string]any{"type": "form"}})
		require.NoError(t, err)
		_, err = idx.Add(ctx, Document{Text: "customer view", Metadata: map[string]any{"type": "view"}})
		require.NoError(t, err)

		results := idx.Search(ctx, "customer", map[string]string{"type": "form"}, 10)
		require.Len(t, results, 1)
		assert.Equal(t, "form", results[0].Document.Metadata["type"])
	})

	t.Run("search failure returns empty slice", func(t *testing.T) {
		idx := NewIndex("test", t.TempDir(), wordEmbedder{err: errors.New("provider down")}, zap.NewNop())

		results := idx.Search(ctx, "anything", nil, 5)
		assert.Empty(t, results)
	})
}

func TestIndexPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("documents survive a reload", func(t *testing.T) {
		dir := t.TempDir()

		idx := NewIndex("persisted", dir, wordEmbedder{}, zap.NewNop())
		_, err := idx.Add(ctx, Document{ID: "doc-1", Text: "customer record"})
		require.NoError(t, err)

		reloaded := NewIndex("persisted", dir, wordEmbedder{}, zap.NewNop())
		reloaded.Load()

		assert.Equal(t, 1, reloaded.Size())
		results := reloaded.Search(ctx, "customer record", nil, 1)
		require.Len(t, results, 1)
		assert.Equal(t, "doc-1", results[0].Document.ID)
	})

	t.Run("missing file starts empty", func(t *testing.T) {
		idx := NewIndex("never-saved", t.TempDir(), wordEmbedder{}, zap.NewNop())
		idx.Load()
		assert.Equal(t, 0, idx.Size())
	})

	t.Run("corrupt file starts empty", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("{{{"), 0o644))

		idx := NewIndex("corrupt", dir, wordEmbedder{}, zap.NewNop())
		idx.Load()
		assert.Equal(t, 0, idx.Size())
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}
