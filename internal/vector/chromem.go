package vector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/philippgille/chromem-go"

	"github.com/loci-labs/palace/internal/embedding"
	"github.com/loci-labs/palace/internal/models"
)

// ChromemStore implements VectorStore using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	dataDir    string
}

// NewChromemStore creates a chromem-go vector store whose embeddings come
// from the given provider. Routing the embedding function through the
// provider means indexing obeys the same backend selection as every other
// embedding call, including settings changes between calls.
func NewChromemStore(cfg Config, provider embedding.Provider) (*ChromemStore, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".palace", "vectors")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create vector dir: %w", err)
	}

	db, err := chromem.NewPersistentDB(dataDir, false)
	if err != nil {
		return nil, fmt.Errorf("create chromem db: %w", err)
	}

	embeddingFunc := providerEmbeddingFunc(provider)

	collection, err := db.GetOrCreateCollection("memories", nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: collection,
		dataDir:    dataDir,
	}, nil
}

// providerEmbeddingFunc adapts the vector-or-nil Provider contract to
// chromem's vector-or-error one.
func providerEmbeddingFunc(provider embedding.Provider) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec := provider.GetEmbedding(ctx, text, "")
		if vec == nil {
			return nil, fmt.Errorf("embedding unavailable (provider %s)", provider.ActiveModel())
		}
		return vec, nil
	}
}

// AddMemory embeds and stores a memory's content.
func (s *ChromemStore) AddMemory(ctx context.Context, memory *models.Memory) (string, error) {
	content := PrepareContent(memory)
	hash := models.HashContent(content)

	doc := chromem.Document{
		ID:      memory.ID,
		Content: content,
		Metadata: map[string]string{
			"title":        memory.Title,
			"content_hash": hash,
		},
	}

	// AddDocuments handles embedding internally
	if err := s.collection.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}

	return hash, nil
}

// AddMemoryBatch embeds and stores multiple memories efficiently.
func (s *ChromemStore) AddMemoryBatch(ctx context.Context, memories []models.Memory) (int, []error) {
	docs := make([]chromem.Document, 0, len(memories))
	var errs []error

	for i := range memories {
		memory := &memories[i]
		content := PrepareContent(memory)
		hash := models.HashContent(content)

		docs = append(docs, chromem.Document{
			ID:      memory.ID,
			Content: content,
			Metadata: map[string]string{
				"title":        memory.Title,
				"content_hash": hash,
			},
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		errs = append(errs, err)
		return 0, errs
	}

	return len(docs), errs
}

// Search finds similar memories by query text.
func (s *ChromemStore) Search(ctx context.Context, query string, limit int, threshold float32) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}

	// Cap limit to collection size to avoid chromem error
	count := s.collection.Count()
	if limit > count {
		limit = count
	}
	if limit == 0 {
		return []SearchHit{}, nil
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		if r.Similarity < threshold {
			continue
		}

		hits = append(hits, SearchHit{
			MemoryID:    r.ID,
			Score:       r.Similarity,
			ContentHash: r.Metadata["content_hash"],
		})
	}

	return hits, nil
}

// Delete removes a memory's embedding by ID.
func (s *ChromemStore) Delete(ctx context.Context, memoryID string) error {
	return s.collection.Delete(ctx, nil, nil, memoryID)
}

// Count returns total indexed memory count.
func (s *ChromemStore) Count(ctx context.Context) (int64, error) {
	return int64(s.collection.Count()), nil
}

// Close releases resources.
func (s *ChromemStore) Close() error {
	// chromem-go persists automatically, no explicit close needed
	return nil
}

var _ VectorStore = (*ChromemStore)(nil)
