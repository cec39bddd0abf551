package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:   DefaultBaseDir(),
		Embedding: DefaultVectorConfig(),
	}
}

// Default values for the embedding settings table. Seeded by db.New when a
// key is missing; user edits via `palace config set` win afterwards.
var DefaultSettings = map[string]string{
	"embedding_provider":     "ollama",
	"embedding_model":        "text-embedding-3-small",
	"openai_base_url":        "https://api.openai.com/v1",
	"ollama_base_url":        "http://localhost:11434",
	"ollama_embedding_model": "nomic-embed-text",
}
