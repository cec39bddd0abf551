package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/loci-labs/palace/internal/db"
	"github.com/loci-labs/palace/internal/models"
	"github.com/loci-labs/palace/internal/vector"
)

// Indexer handles bulk reindexing of memories into the vector store.
type Indexer struct {
	db      *db.DB
	store   vector.VectorStore
	config  IndexerConfig
	limiter *rate.Limiter
}

// IndexerConfig holds indexer settings.
type IndexerConfig struct {
	// RateLimit caps embedding requests per minute, protecting remote
	// provider quotas during bulk runs.
	RateLimit int
}

// DefaultIndexerConfig returns sensible defaults.
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		RateLimit: models.DefaultEmbeddingConfig().RateLimit,
	}
}

// Progress reports indexing progress.
type Progress struct {
	Total     int
	Completed int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

// NewIndexer creates a new indexer.
func NewIndexer(database *db.DB, store vector.VectorStore, cfg IndexerConfig) *Indexer {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultIndexerConfig().RateLimit
	}

	return &Indexer{
		db:      database,
		store:   store,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), 1),
	}
}

// ReindexAll re-embeds every memory whose content changed since it was last
// indexed. Unchanged memories (same content hash) are skipped. Individual
// failures don't abort the run.
func (idx *Indexer) ReindexAll(ctx context.Context, progress chan<- Progress) (*Progress, error) {
	start := time.Now()

	memories, err := idx.db.ListMemories(100000, 0)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}

	p := Progress{Total: len(memories)}

	for i := range memories {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		memory := &memories[i]

		content := vector.PrepareContent(memory)
		hash := models.HashContent(content)
		if memory.ContentHash == hash {
			p.Skipped++
			report(progress, p, start)
			continue
		}

		if err := idx.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		storedHash, err := idx.store.AddMemory(ctx, memory)
		if err != nil {
			p.Failed++
			report(progress, p, start)
			continue
		}

		if err := idx.db.UpdateContentHash(memory.ID, storedHash); err != nil {
			p.Failed++
			report(progress, p, start)
			continue
		}

		p.Completed++
		report(progress, p, start)
	}

	p.Duration = time.Since(start)
	return &p, nil
}

func report(progress chan<- Progress, p Progress, start time.Time) {
	if progress == nil {
		return
	}
	p.Duration = time.Since(start)
	select {
	case progress <- p:
	default:
		// Slow consumers drop updates rather than stall indexing.
	}
}
