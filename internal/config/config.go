// Package config handles application configuration management.
package config

import (
	"os"
	"path/filepath"
)

// Config holds all application configuration.
//
// Runtime-switchable embedding settings live in the sqlite settings table,
// not here: the embedding layer re-reads those on every call. Config covers
// process-level concerns (directories, env overrides applied at startup).
type Config struct {
	// Base directory for all Palace data (~/.palace)
	BaseDir string

	// Embedding/Vector Store settings
	Embedding VectorConfig
}

// VectorConfig holds vector store configuration.
type VectorConfig struct {
	// DataDir for chromem-go persistence (default: ~/.palace/vectors)
	DataDir string
	// MinSimilarity threshold for recall (default: 0.6)
	MinSimilarity float32
}

// DefaultVectorConfig returns sensible defaults.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		DataDir:       "", // Will use ~/.palace/vectors
		MinSimilarity: 0.6,
	}
}

// EnvOverrides maps environment variables to settings-table keys.
// Applied once at startup by db.New; the settings table remains the source
// of truth afterwards.
func EnvOverrides() map[string]string {
	overrides := map[string]string{}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		overrides["openai_api_key"] = key
	}
	if url := os.Getenv("PALACE_OPENAI_BASE_URL"); url != "" {
		overrides["openai_base_url"] = url
	}
	if model := os.Getenv("PALACE_EMBEDDING_MODEL"); model != "" {
		overrides["embedding_model"] = model
	}
	if provider := os.Getenv("PALACE_EMBEDDING_PROVIDER"); provider != "" {
		overrides["embedding_provider"] = provider
	}
	if url := os.Getenv("OLLAMA_HOST"); url != "" {
		overrides["ollama_base_url"] = url
	}

	return overrides
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if dir := os.Getenv("PALACE_HOME"); dir != "" {
		cfg.BaseDir = dir
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.BaseDir,
		filepath.Join(cfg.BaseDir, "vectors"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
