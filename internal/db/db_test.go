package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loci-labs/palace/internal/models"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(Config{
		Path:        dbPath,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	return db
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "palace.db")

	db, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	}()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	if db.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
	}
}

func TestMemoryCRUD(t *testing.T) {
	db := testDB(t)

	memory := &models.Memory{
		Title:   "Kitchen layout",
		Content: "The spice rack is to the left of the stove.",
	}
	memory.SetTags([]string{"home", "kitchen"})

	if err := db.CreateMemory(memory); err != nil {
		t.Fatalf("CreateMemory() error = %v", err)
	}
	if memory.ID == "" {
		t.Fatal("CreateMemory() did not assign an ID")
	}

	got, err := db.GetMemory(memory.ID)
	if err != nil {
		t.Fatalf("GetMemory() error = %v", err)
	}
	if got.Title != memory.Title {
		t.Errorf("GetMemory() title = %q, want %q", got.Title, memory.Title)
	}
	if tags := got.GetTags(); len(tags) != 2 || tags[0] != "home" {
		t.Errorf("GetTags() = %v, want [home kitchen]", tags)
	}

	memories, err := db.ListMemories(10, 0)
	if err != nil {
		t.Fatalf("ListMemories() error = %v", err)
	}
	if len(memories) != 1 {
		t.Errorf("ListMemories() returned %d memories, want 1", len(memories))
	}

	if err := db.DeleteMemory(memory.ID); err != nil {
		t.Fatalf("DeleteMemory() error = %v", err)
	}
	if _, err := db.GetMemory(memory.ID); err == nil {
		t.Error("GetMemory() after delete should return an error")
	}
}

func TestSearchMemoriesFTS(t *testing.T) {
	db := testDB(t)

	entries := []models.Memory{
		{Title: "Grocery run", Content: "Buy oat milk and coffee beans", Tags: "errand"},
		{Title: "Project deadline", Content: "Quarterly report due Friday", Tags: "work"},
		{Title: "Coffee order", Content: "Flat white, extra shot", Tags: "preferences"},
	}
	for i := range entries {
		if err := db.CreateMemory(&entries[i]); err != nil {
			t.Fatalf("CreateMemory() error = %v", err)
		}
	}

	results, err := db.SearchMemories("coffee", 10)
	if err != nil {
		t.Fatalf("SearchMemories() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("SearchMemories() returned %d results, want 2", len(results))
	}

	// Query with FTS special characters must not error
	if _, err := db.SearchMemories(`"coffee:order*"`, 10); err != nil {
		t.Errorf("SearchMemories() with special chars error = %v", err)
	}

	// Nothing survives sanitization and no row contains the raw text:
	// the fallback scan finds nothing, but must not error.
	results, err = db.SearchMemories(`"':()*`, 10)
	if err != nil {
		t.Fatalf("SearchMemories() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for unmatchable query, got %d", len(results))
	}
}

func TestSearchMemoriesLikeFallback(t *testing.T) {
	db := testDB(t)

	memory := models.Memory{
		Title:   "Banner snippet",
		Content: "ascii art ((( banner for the release notes",
		Tags:    "shell",
	}
	if err := db.CreateMemory(&memory); err != nil {
		t.Fatalf("CreateMemory() error = %v", err)
	}

	// The whole query is stripped by FTS sanitization, so MATCH can't run;
	// the LIKE fallback still finds the row by substring.
	results, err := db.SearchMemories("(((", 10)
	if err != nil {
		t.Fatalf("SearchMemories() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("SearchMemories() returned %d results, want 1 via fallback", len(results))
	}
	if results[0].ID != memory.ID {
		t.Errorf("fallback returned %s, want %s", results[0].ID, memory.ID)
	}
	if results[0].Rank != 0 {
		t.Errorf("fallback rank = %v, want 0 (unranked)", results[0].Rank)
	}
}

func TestGetStats(t *testing.T) {
	db := testDB(t)

	if err := db.CreateMemory(&models.Memory{Title: "One", Content: "first"}); err != nil {
		t.Fatalf("CreateMemory() error = %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalMemories != 1 {
		t.Errorf("TotalMemories = %d, want 1", stats.TotalMemories)
	}
	if stats.DBSizeBytes <= 0 {
		t.Error("DBSizeBytes should be positive")
	}
}
