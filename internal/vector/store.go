// Package vector provides the persistent vector index for memories.
package vector

import (
	"context"

	"github.com/loci-labs/palace/internal/models"
)

// VectorStore abstracts vector storage with built-in embedding support.
// Implementations handle both embedding generation and storage.
type VectorStore interface {
	// AddMemory embeds and stores a memory's content.
	// Returns the content hash used for reindex skipping.
	AddMemory(ctx context.Context, memory *models.Memory) (contentHash string, err error)

	// AddMemoryBatch embeds and stores multiple memories efficiently.
	// Returns number of successful additions and any errors.
	AddMemoryBatch(ctx context.Context, memories []models.Memory) (added int, errs []error)

	// Search finds similar memories by query text.
	// Handles query embedding internally.
	Search(ctx context.Context, query string, limit int, threshold float32) ([]SearchHit, error)

	// Delete removes a memory's embedding by ID.
	Delete(ctx context.Context, memoryID string) error

	// Count returns total indexed memory count.
	Count(ctx context.Context) (int64, error)

	// Close releases resources.
	Close() error
}

// SearchHit represents a search result with similarity score.
type SearchHit struct {
	MemoryID    string
	Score       float32 // Cosine similarity (0.0-1.0)
	ContentHash string  // For reindex skipping
}

// Config holds vector store configuration.
type Config struct {
	// DataDir is where chromem-go persists vectors (default: ~/.palace/vectors)
	DataDir string
}
