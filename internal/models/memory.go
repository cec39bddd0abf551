// Package models defines the core data structures for Palace.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Memory represents a single stored memory entry.
type Memory struct {
	ID string `gorm:"primaryKey;size:64" json:"id"` // UUID

	// Content
	Title   string `gorm:"size:255;index" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	// Tags as a comma-delimited string (small cardinality, no join table needed)
	Tags string `gorm:"size:500" json:"tags"`

	// ContentHash tracks what was last embedded, for reindex skipping.
	ContentHash string `gorm:"size:64" json:"content_hash"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Memory) TableName() string {
	return "memories"
}

// GetTags returns the tag list from the comma-delimited string.
func (m *Memory) GetTags() []string {
	if m.Tags == "" {
		return []string{}
	}
	parts := strings.Split(m.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// SetTags sets the tags from a list.
func (m *Memory) SetTags(tags []string) {
	m.Tags = strings.Join(tags, ",")
}

// HashContent computes the SHA256 hash of the memory's embeddable content.
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// MemoryStats holds aggregate statistics about the memory store.
type MemoryStats struct {
	TotalMemories int64     `json:"total_memories"`
	IndexedCount  int64     `json:"indexed_count"`
	DBSizeBytes   int64     `json:"db_size_bytes"`
	LastUpdated   time.Time `json:"last_updated"`
}
