package models

// EmbeddingConfig holds embedding indexing configuration.
type EmbeddingConfig struct {
	Model     string `json:"model" yaml:"model"`
	Dimension int    `json:"dimension" yaml:"dimension"`
	BatchSize int    `json:"batch_size" yaml:"batch_size"`
	RateLimit int    `json:"rate_limit" yaml:"rate_limit"` // requests per minute
}

// DefaultEmbeddingConfig returns sensible defaults.
func DefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		Model:     "text-embedding-3-small",
		Dimension: 1536,
		BatchSize: 50,
		RateLimit: 3000, // 3000 RPM for text-embedding-3-small
	}
}

// EmbeddingModelDimensions maps known model names to their dimensions.
// The embedding layer never validates vector length against these; they
// exist for display and capacity planning only.
var EmbeddingModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
}
