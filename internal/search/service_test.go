package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/loci-labs/palace/internal/db"
	"github.com/loci-labs/palace/internal/models"
	"github.com/loci-labs/palace/internal/vector"
)

// fakeStore is an in-memory VectorStore for testing.
type fakeStore struct {
	hits      []vector.SearchHit
	searchErr error
	added     []string
	addErr    error
}

func (f *fakeStore) AddMemory(ctx context.Context, memory *models.Memory) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	f.added = append(f.added, memory.ID)
	return models.HashContent(vector.PrepareContent(memory)), nil
}

func (f *fakeStore) AddMemoryBatch(ctx context.Context, memories []models.Memory) (int, []error) {
	for i := range memories {
		f.added = append(f.added, memories[i].ID)
	}
	return len(memories), nil
}

func (f *fakeStore) Search(ctx context.Context, query string, limit int, threshold float32) ([]vector.SearchHit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func (f *fakeStore) Delete(ctx context.Context, memoryID string) error { return nil }
func (f *fakeStore) Count(ctx context.Context) (int64, error)          { return int64(len(f.added)), nil }
func (f *fakeStore) Close() error                                      { return nil }

func testDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(db.DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestRecallMergesSemanticAndKeyword(t *testing.T) {
	database := testDB(t)

	coffee := &models.Memory{Title: "Coffee order", Content: "Flat white, extra shot"}
	beans := &models.Memory{Title: "Bean supplier", Content: "Coffee beans from the roastery on 5th"}
	for _, m := range []*models.Memory{coffee, beans} {
		if err := database.CreateMemory(m); err != nil {
			t.Fatalf("CreateMemory() error = %v", err)
		}
	}

	// Semantic returns only the first; keyword should fill in the second.
	store := &fakeStore{hits: []vector.SearchHit{{MemoryID: coffee.ID, Score: 0.9}}}
	service := New(database, store, DefaultConfig())

	results, err := service.Recall(context.Background(), "coffee", DefaultOptions())
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	if len(results.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(results.Matches))
	}
	if results.Matches[0].Source != MatchSemantic || results.Matches[0].Memory.ID != coffee.ID {
		t.Error("semantic match should rank first")
	}
	if results.Matches[1].Source != MatchKeyword {
		t.Error("keyword match should fill in after semantic")
	}
}

func TestRecallDeduplicates(t *testing.T) {
	database := testDB(t)

	memory := &models.Memory{Title: "Coffee order", Content: "Flat white"}
	if err := database.CreateMemory(memory); err != nil {
		t.Fatalf("CreateMemory() error = %v", err)
	}

	store := &fakeStore{hits: []vector.SearchHit{{MemoryID: memory.ID, Score: 0.8}}}
	service := New(database, store, DefaultConfig())

	results, err := service.Recall(context.Background(), "coffee", DefaultOptions())
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	if len(results.Matches) != 1 {
		t.Errorf("got %d matches, want 1 (no duplicate for the same memory)", len(results.Matches))
	}
	if results.Matches[0].Source != MatchSemantic {
		t.Error("the semantic variant should win the dedupe")
	}
}

func TestRecallDegradesWithoutSemantic(t *testing.T) {
	database := testDB(t)

	memory := &models.Memory{Title: "Coffee order", Content: "Flat white"}
	if err := database.CreateMemory(memory); err != nil {
		t.Fatalf("CreateMemory() error = %v", err)
	}

	store := &fakeStore{searchErr: errors.New("provider down")}
	service := New(database, store, DefaultConfig())

	results, err := service.Recall(context.Background(), "coffee", DefaultOptions())
	if err != nil {
		t.Fatalf("Recall() must not fail when semantic search errors, got %v", err)
	}
	if len(results.Matches) != 1 || results.Matches[0].Source != MatchKeyword {
		t.Error("keyword results should survive a semantic failure")
	}
}

func TestRecallNilStore(t *testing.T) {
	database := testDB(t)

	memory := &models.Memory{Title: "Coffee order", Content: "Flat white"}
	if err := database.CreateMemory(memory); err != nil {
		t.Fatalf("CreateMemory() error = %v", err)
	}

	service := New(database, nil, DefaultConfig())
	results, err := service.Recall(context.Background(), "coffee", DefaultOptions())
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(results.Matches) != 1 {
		t.Errorf("got %d matches, want 1 via keyword only", len(results.Matches))
	}
}
