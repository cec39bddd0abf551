package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/loci-labs/palace/internal/log"
	"github.com/loci-labs/palace/internal/models"
)

const (
	// DefaultOllamaModel is the fallback when ollama_embedding_model is unset.
	DefaultOllamaModel = "nomic-embed-text"

	defaultOllamaBaseURL = "http://localhost:11434"

	ollamaRequestTimeout = 30 * time.Second
)

// OllamaClient obtains embeddings from a local Ollama daemon.
//
// Unlike the remote client there is no retry ladder: the daemon is local, so
// a failure is either immediate (not running) or persistent (model missing),
// and retrying would only delay the nil result.
type OllamaClient struct {
	settings Settings
	client   *http.Client
}

// NewOllamaClient creates a local embedding client over the given settings.
func NewOllamaClient(settings Settings) *OllamaClient {
	return &OllamaClient{
		settings: settings,
		client:   &http.Client{},
	}
}

func (c *OllamaClient) baseURL() string {
	base := c.settings.Get(models.SettingOllamaBaseURL)
	if base == "" {
		base = defaultOllamaBaseURL
	}
	return strings.TrimRight(base, "/")
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

// GetEmbedding requests one embedding vector from the local daemon.
func (c *OllamaClient) GetEmbedding(ctx context.Context, text, model string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if model == "" {
		model = c.ActiveModel()
	}

	body, err := json.Marshal(ollamaRequest{Model: model, Prompt: text})
	if err != nil {
		log.Errorf("marshal ollama request: %v", err)
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, ollamaRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL()+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		log.Errorf("build ollama request: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("ollama embedding request failed: %v", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("ollama embedding error: HTTP %d", resp.StatusCode)
		return nil
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Warnf("malformed ollama response: %v", err)
		return nil
	}

	if len(parsed.Embedding) == 0 {
		log.Warnf("ollama returned empty embedding")
		return nil
	}

	return parsed.Embedding
}

// IsAvailable probes the daemon's tag listing.
func (c *OllamaClient) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL()+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// ActiveModel returns the configured local model, or the fallback.
func (c *OllamaClient) ActiveModel() string {
	model := c.settings.Get(models.SettingOllamaEmbeddingModel)
	if model == "" {
		model = DefaultOllamaModel
	}
	return model
}

var _ Provider = (*OllamaClient)(nil)
