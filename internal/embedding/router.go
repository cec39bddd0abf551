package embedding

import (
	"context"

	"github.com/loci-labs/palace/internal/models"
)

// Router selects a backend per call based on the embedding_provider setting.
//
// The selection is never cached: every operation re-reads the setting, so
// switching providers takes effect on the next call without a restart. The
// host constructs and owns the router; constructing it twice just yields two
// equivalent values, so there is no install guard or process-wide state.
type Router struct {
	settings Settings
	local    Provider
	remote   Provider
}

// NewRouter creates a router over explicit local and remote backends.
func NewRouter(settings Settings, local, remote Provider) *Router {
	return &Router{
		settings: settings,
		local:    local,
		remote:   remote,
	}
}

// NewDefaultRouter wires the standard backends: Ollama locally,
// an OpenAI-compatible API remotely.
func NewDefaultRouter(settings Settings) *Router {
	return NewRouter(settings, NewOllamaClient(settings), NewOpenAIClient(settings))
}

// provider resolves the active backend for this call.
func (r *Router) provider() Provider {
	if r.settings.Get(models.SettingEmbeddingProvider) == ProviderOpenAI {
		return r.remote
	}
	// "ollama", unset, or anything unrecognized keeps the local path.
	return r.local
}

// GetEmbedding delegates to the selected backend, arguments unchanged.
func (r *Router) GetEmbedding(ctx context.Context, text, model string) []float32 {
	return r.provider().GetEmbedding(ctx, text, model)
}

// IsAvailable delegates to the selected backend's health check.
func (r *Router) IsAvailable(ctx context.Context) bool {
	return r.provider().IsAvailable(ctx)
}

// ActiveModel delegates to the selected backend's model reporting.
func (r *Router) ActiveModel() string {
	return r.provider().ActiveModel()
}

var _ Provider = (*Router)(nil)
