package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Embedder produces an embedding vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Document is a single searchable entry in an index.
type Document struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Embedding []float64      `json:"embedding"`
}

// SearchResult pairs a document with its similarity score for a query.
type SearchResult struct {
	Document Document
	Score    float64
}

// Index is a file-backed vector index. Documents are kept in memory and
// persisted to a JSON file after every mutation, so the process can restart
// without losing indexed content.
type Index struct {
	name     string
	path     string
	embedder Embedder
	logger   *zap.Logger

	mu   sync.Mutex
	docs []Document
}

func NewIndex(name, basePath string, embedder Embedder, logger *zap.Logger) *Index {
	return &Index{
		name:     name,
		path:     filepath.Join(basePath, name+".json"),
		embedder: embedder,
		logger:   logger.With(zap.String("index", name)),
	}
}

// Load restores persisted documents from disk. A missing file is not an
// error; any other failure leaves the index empty and is logged.
func (idx *Index) Load() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	raw, err := os.ReadFile(idx.path)
	if err != nil {
		if !os.IsNotExist(err) {
			idx.logger.Warn("failed to read persisted index, starting empty", zap.Error(err))
		}
		return
	}

	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		idx.logger.Warn("failed to decode persisted index, starting empty", zap.Error(err))
		return
	}

	idx.docs = docs
	idx.logger.Info("restored persisted index", zap.Int("documents", len(docs)))
}

// Add embeds the text and upserts the document. Documents with the same ID
// are replaced; documents without an ID get a generated one. The index file
// is rewritten after every successful add.
func (idx *Index) Add(ctx context.Context, doc Document) (string, error) {
	if doc.Text == "" {
		return "", fmt.Errorf("index %s: document text must not be empty", idx.name)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	embedding, err := idx.embedder.Embed(ctx, doc.Text)
	if err != nil {
		return "", fmt.Errorf("index %s: embedding document: %w", idx.name, err)
	}
	doc.Embedding = embedding

	idx.mu.Lock()
	defer idx.mu.Unlock()

	replaced := false
	for i := range idx.docs {
		if idx.docs[i].ID == doc.ID {
			idx.docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		idx.docs = append(idx.docs, doc)
	}

	if err := idx.persistLocked(); err != nil {
		return "", fmt.Errorf("index %s: persisting: %w", idx.name, err)
	}

	return doc.ID, nil
}

// Search returns the topK most similar documents, optionally restricted to
// documents whose metadata matches every filter entry. Retrieval is
// best-effort: any failure is logged and an empty result is returned, so
// callers can proceed without retrieved context.
func (idx *Index) Search(ctx context.Context, query string, filter map[string]string, topK int) []SearchResult {
	if topK <= 0 {
		return []SearchResult{}
	}

	queryEmbedding, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		ctxzap.Warn(ctx, "retrieval skipped: query embedding failed",
			zap.String("index", idx.name),
			zap.Error(err),
		)
		return []SearchResult{}
	}

	idx.mu.Lock()
	candidates := make([]Document, len(idx.docs))
	copy(candidates, idx.docs)
	idx.mu.Unlock()

	results := make([]SearchResult, 0, len(candidates))
	for _, doc := range candidates {
		if !matchesFilter(doc.Metadata, filter) {
			continue
		}
		results = append(results, SearchResult{
			Document: doc,
			Score:    cosineSimilarity(queryEmbedding, doc.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results
}

// Size reports the number of indexed documents.
func (idx *Index) Size() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.docs)
}

func (idx *Index) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(idx.path), 0o755); err != nil {
		return err
	}

	raw, err := json.Marshal(idx.docs)
	if err != nil {
		return err
	}

	tmp := idx.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, idx.path)
}

func matchesFilter(metadata map[string]any, filter map[string]string) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != want {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
