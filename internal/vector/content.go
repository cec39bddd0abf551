package vector

import (
	"strings"

	"github.com/loci-labs/palace/internal/models"
)

// PrepareContent concatenates memory fields for embedding.
// Title is repeated for emphasis. Oversized content is left intact here; the
// embedding provider applies its own truncation budget.
func PrepareContent(memory *models.Memory) string {
	var parts []string

	if memory.Title != "" {
		parts = append(parts, memory.Title, memory.Title) // Repeated for emphasis
	}
	if memory.Content != "" {
		parts = append(parts, memory.Content)
	}
	for _, tag := range memory.GetTags() {
		parts = append(parts, tag)
	}

	return strings.Join(parts, "\n\n")
}
