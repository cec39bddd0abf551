package search

import (
	"time"

	"github.com/loci-labs/palace/internal/models"
)

// MatchSource indicates which search path produced a match.
type MatchSource string

const (
	// MatchSemantic means the match came from vector similarity.
	MatchSemantic MatchSource = "semantic"
	// MatchKeyword means the match came from FTS5 full-text search.
	MatchKeyword MatchSource = "keyword"
)

// MemoryMatch represents a recall result with metadata.
type MemoryMatch struct {
	Memory models.Memory
	Score  float32 // Cosine similarity for semantic, 0 for keyword
	Source MatchSource
}

// Results contains recall results in ranked order.
type Results struct {
	Query    string
	Matches  []MemoryMatch
	Duration time.Duration
}

// Options configures recall behavior.
type Options struct {
	Limit           int
	IncludeSemantic bool
	IncludeKeyword  bool
}

// DefaultOptions enables both search paths.
func DefaultOptions() Options {
	return Options{
		Limit:           20,
		IncludeSemantic: true,
		IncludeKeyword:  true,
	}
}
