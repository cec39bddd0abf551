// Package search provides hybrid memory recall combining semantic and
// full-text search, plus bulk reindexing.
package search

import (
	"context"
	"log"
	"time"

	"github.com/loci-labs/palace/internal/db"
	"github.com/loci-labs/palace/internal/vector"
)

// Service provides unified recall combining FTS5 and semantic search.
type Service struct {
	db     *db.DB
	store  vector.VectorStore
	config Config
}

// Config holds recall configuration.
type Config struct {
	MinSimilarity float32
	MaxResults    int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinSimilarity: 0.6,
		MaxResults:    50,
	}
}

// New creates a recall service.
// The store parameter can be nil if semantic search is not available.
func New(database *db.DB, store vector.VectorStore, cfg Config) *Service {
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = 0.6
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 50
	}

	return &Service{
		db:     database,
		store:  store,
		config: cfg,
	}
}

// Recall performs hybrid search over stored memories.
// Errors in one path don't fail the whole recall - graceful degradation.
func (s *Service) Recall(ctx context.Context, query string, opts Options) (*Results, error) {
	start := time.Now()

	results := &Results{
		Query:   query,
		Matches: []MemoryMatch{},
	}

	limit := opts.Limit
	if limit <= 0 || limit > s.config.MaxResults {
		limit = s.config.MaxResults
	}

	// Track seen memory IDs to avoid duplicates
	seen := make(map[string]bool)

	// Semantic search first: ranked by similarity, best signal when the
	// embedding provider is reachable.
	if opts.IncludeSemantic && s.store != nil {
		hits, err := s.store.Search(ctx, query, limit, s.config.MinSimilarity)
		if err != nil {
			log.Printf("semantic recall warning: %v (continuing with keyword only)", err)
		} else {
			for _, hit := range hits {
				memory, err := s.db.GetMemory(hit.MemoryID)
				if err != nil {
					// Index entry without a row; stale, skip it.
					continue
				}
				seen[hit.MemoryID] = true
				results.Matches = append(results.Matches, MemoryMatch{
					Memory: *memory,
					Score:  hit.Score,
					Source: MatchSemantic,
				})
			}
		}
	}

	// Keyword search fills in anything semantic missed.
	if opts.IncludeKeyword {
		rows, err := s.db.SearchMemories(query, limit)
		if err != nil {
			log.Printf("keyword recall warning: %v (continuing with semantic only)", err)
		} else {
			for _, row := range rows {
				if seen[row.ID] {
					continue
				}
				seen[row.ID] = true
				results.Matches = append(results.Matches, MemoryMatch{
					Memory: row.Memory,
					Source: MatchKeyword,
				})
			}
		}
	}

	if len(results.Matches) > limit {
		results.Matches = results.Matches[:limit]
	}

	results.Duration = time.Since(start)
	return results, nil
}
