// Package embedding provides the pluggable text-embedding layer for Palace.
//
// A Provider turns text into a vector, or nil when it can't. Failure detail
// never crosses this boundary: transient errors are retried internally and
// terminal ones are reported to the log file, so callers work with a uniform
// vector-or-nil contract. Operators diagnose via palace.log and the status
// command.
package embedding

import "context"

// Provider defines the interface for embedding backends.
type Provider interface {
	// GetEmbedding converts text into a vector using the given model, or
	// the backend's configured model when model is empty. Returns nil on
	// empty input or any failure.
	GetEmbedding(ctx context.Context, text, model string) []float32

	// IsAvailable reports whether the backend can currently serve requests.
	// A single lightweight probe; never retried.
	IsAvailable(ctx context.Context) bool

	// ActiveModel returns the model the backend would embed with right now.
	ActiveModel() string
}

// Settings is the configuration accessor consumed by this package.
// Implementations must return the current value on every call — providers
// re-read configuration per request so a settings change takes effect on
// the very next operation.
type Settings interface {
	Get(key string) string
}

// Provider kinds recognized by the router.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)
