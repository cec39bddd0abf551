package config

import (
	"os"
	"path/filepath"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	Vectors  string // chromem-go persistence directory
	Logs     string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	vectors := cfg.Embedding.DataDir
	if vectors == "" {
		vectors = filepath.Join(cfg.BaseDir, "vectors")
	}
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "palace.db"),
		Vectors:  vectors,
		Logs:     cfg.BaseDir,
	}
}

// DefaultBaseDir returns the default base directory (~/.palace).
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".palace"
	}
	return filepath.Join(home, ".palace")
}
