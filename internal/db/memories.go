package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loci-labs/palace/internal/models"
)

// CreateMemory inserts a new memory, assigning an ID if absent.
func (db *DB) CreateMemory(memory *models.Memory) error {
	if memory.ID == "" {
		memory.ID = uuid.New().String()
	}
	return db.Create(memory).Error
}

// UpsertMemory inserts or updates a memory by ID.
func (db *DB) UpsertMemory(memory *models.Memory) error {
	if memory.ID == "" {
		memory.ID = uuid.New().String()
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "tags", "content_hash", "updated_at"}),
	}).Create(memory).Error
}

// GetMemory retrieves a memory by ID.
func (db *DB) GetMemory(id string) (*models.Memory, error) {
	var memory models.Memory
	err := db.Where("id = ?", id).First(&memory).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("memory not found: %s", id)
		}
		return nil, err
	}
	return &memory, nil
}

// ListMemories returns memories ordered by most recently updated.
func (db *DB) ListMemories(limit, offset int) ([]models.Memory, error) {
	if limit <= 0 {
		limit = 100
	}
	var memories []models.Memory
	err := db.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&memories).Error
	return memories, err
}

// DeleteMemory removes a memory by ID.
func (db *DB) DeleteMemory(id string) error {
	return db.Where("id = ?", id).Delete(&models.Memory{}).Error
}

// UpdateContentHash records the hash of what was last embedded.
func (db *DB) UpdateContentHash(id, hash string) error {
	return db.Model(&models.Memory{}).Where("id = ?", id).
		Updates(map[string]interface{}{"content_hash": hash, "updated_at": time.Now()}).Error
}

// MemorySearchResult is a memory row with its FTS rank.
type MemorySearchResult struct {
	models.Memory
	Rank float64 `json:"rank"`
}

// SearchMemories performs FTS5 full-text search over title, content, and
// tags, falling back to a LIKE scan when the query can't be expressed as a
// MATCH (nothing survives sanitization) or the MATCH itself errors.
func (db *DB) SearchMemories(query string, limit int) ([]MemorySearchResult, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return db.searchMemoriesLike(query, limit)
	}

	var results []MemorySearchResult
	err := db.Raw(`
		SELECT m.*, bm25(memories_fts, 10.0, 1.0, 3.0) as rank
		FROM memories m
		JOIN memories_fts fts ON m.rowid = fts.rowid
		WHERE memories_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery, limit).Scan(&results).Error

	if err != nil {
		return db.searchMemoriesLike(query, limit)
	}

	return results, nil
}

// searchMemoriesLike is the substring fallback for queries FTS5 can't serve.
// Unranked; rows come back most recently updated first.
func (db *DB) searchMemoriesLike(query string, limit int) ([]MemorySearchResult, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"

	var results []MemorySearchResult
	err := db.Raw(`
		SELECT m.*, 0.0 as rank
		FROM memories m
		WHERE m.title LIKE ? OR m.content LIKE ? OR m.tags LIKE ?
		ORDER BY m.updated_at DESC
		LIMIT ?
	`, pattern, pattern, pattern, limit).Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("like search: %w", err)
	}

	return results, nil
}

// CountMemories returns the total memory count.
func (db *DB) CountMemories() (int64, error) {
	var count int64
	err := db.Model(&models.Memory{}).Count(&count).Error
	return count, err
}

// prepareFTSQuery escapes user input for FTS5 MATCH with prefix matching.
func prepareFTSQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}

	var escaped []string
	for _, term := range terms {
		// Remove FTS5 special characters
		term = strings.ReplaceAll(term, "\"", "")
		term = strings.ReplaceAll(term, "'", "")
		term = strings.ReplaceAll(term, "(", "")
		term = strings.ReplaceAll(term, ")", "")
		term = strings.ReplaceAll(term, "*", "")
		term = strings.ReplaceAll(term, ":", "")
		term = strings.ReplaceAll(term, "-", " ")

		if term != "" {
			escaped = append(escaped, term+"*")
		}
	}

	return strings.Join(escaped, " ")
}
