package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/loci-labs/palace/internal/log"
	"github.com/loci-labs/palace/internal/models"
)

const (
	// DefaultOpenAIModel is the fallback when embedding_model is unset.
	DefaultOpenAIModel = "text-embedding-3-small"

	defaultOpenAIBaseURL = "https://api.openai.com/v1"

	// text-embedding-3-small context: 8191 tokens, ~8000 chars is a
	// conservative proxy.
	maxEmbeddingChars = 8000
	truncationMarker  = "\n[TRUNCATED FOR EMBEDDING]"

	maxRetries     = 3
	retryBaseDelay = time.Second

	// Remote cold-starts are assumed possible after a failure, so retry
	// attempts get a longer window.
	firstAttemptTimeout = 30 * time.Second
	retryAttemptTimeout = 60 * time.Second

	availabilityTimeout = 10 * time.Second
)

var (
	// Users may paste the full endpoint including /embeddings?api-version=...
	// We keep just the base and re-append both pieces ourselves.
	embeddingsPathPattern = regexp.MustCompile(`/embeddings(\?.*)?$`)
	apiVersionPattern     = regexp.MustCompile(`api-version=([^&]+)`)
)

// OpenAIClient obtains embeddings from an OpenAI-compatible HTTP API.
// Works with OpenAI, Azure OpenAI, Together, Fireworks, local vLLM, LiteLLM
// proxies, and anything else speaking the /embeddings wire format.
//
// Configuration is read fresh from settings on every call. Safe for
// concurrent use: each call builds and discards its own request state.
type OpenAIClient struct {
	settings Settings
	client   *http.Client

	// sleep is swapped out in tests to assert backoff without waiting.
	sleep func(time.Duration)
}

// NewOpenAIClient creates a remote embedding client over the given settings.
func NewOpenAIClient(settings Settings) *OpenAIClient {
	return &OpenAIClient{
		settings: settings,
		client:   &http.Client{}, // per-attempt timeouts come from context
		sleep:    time.Sleep,
	}
}

// remoteConfig is the per-call snapshot of the remote provider settings.
type remoteConfig struct {
	apiKey     string
	baseURL    string
	model      string
	apiVersion string
}

// loadConfig reads and normalizes the remote settings for one call.
func (c *OpenAIClient) loadConfig() remoteConfig {
	raw := c.settings.Get(models.SettingOpenAIBaseURL)
	if raw == "" {
		raw = defaultOpenAIBaseURL
	}
	raw = strings.TrimRight(raw, "/")

	base := embeddingsPathPattern.ReplaceAllString(raw, "")

	apiVersion := ""
	if m := apiVersionPattern.FindStringSubmatch(raw); m != nil {
		apiVersion = m[1]
	}

	model := c.settings.Get(models.SettingEmbeddingModel)
	if model == "" {
		model = DefaultOpenAIModel
	}

	return remoteConfig{
		apiKey:     c.settings.Get(models.SettingOpenAIAPIKey),
		baseURL:    base,
		model:      model,
		apiVersion: apiVersion,
	}
}

// isAzureHost reports whether the base URL points at Azure OpenAI, which
// authenticates with an api-key header instead of a bearer token.
func isAzureHost(baseURL string) bool {
	return strings.Contains(baseURL, "cognitiveservices.azure.com") ||
		strings.Contains(baseURL, "openai.azure.com")
}

// setAuthHeaders applies the dialect-appropriate authentication header.
func setAuthHeaders(header http.Header, cfg remoteConfig) {
	if isAzureHost(cfg.baseURL) {
		header.Set("api-key", cfg.apiKey)
		return
	}
	header.Set("Authorization", "Bearer "+cfg.apiKey)
}

// embeddingEndpoint builds the request URL from the normalized base.
func embeddingEndpoint(cfg remoteConfig) string {
	endpoint := cfg.baseURL + "/embeddings"
	if cfg.apiVersion != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + "api-version=" + cfg.apiVersion
	}
	return endpoint
}

// truncateForEmbedding enforces the character budget, appending a marker so
// truncated inputs are identifiable. The budget counts characters, not bytes,
// so multibyte input is cut on a rune boundary and stays valid UTF-8.
// Deterministic: the same oversized input always truncates identically.
func truncateForEmbedding(text string) string {
	if utf8.RuneCountInString(text) <= maxEmbeddingChars {
		return text
	}
	runes := []rune(text)
	// The marker is ASCII, so its byte length is its character length.
	truncated := string(runes[:maxEmbeddingChars-len(truncationMarker)]) + truncationMarker
	log.Warnf("truncated embedding text from %d to %d chars (limit: %d)",
		len(runes), maxEmbeddingChars, maxEmbeddingChars)
	return truncated
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetEmbedding requests one embedding vector with bounded retries.
//
// Retryable failures (429, other non-200s, connection errors, timeouts,
// malformed or empty responses) are absorbed here; after the attempt cap the
// last error is reported to the log and nil is returned. Callers cannot
// distinguish failure causes, by design.
func (c *OpenAIClient) GetEmbedding(ctx context.Context, text, model string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	text = truncateForEmbedding(text)

	cfg := c.loadConfig()
	if model == "" {
		model = cfg.model
	}

	if cfg.apiKey == "" {
		log.Errorf("OpenAI API key not configured. Set it with: palace config set openai_api_key <key>")
		return nil
	}

	endpoint := embeddingEndpoint(cfg)

	body, err := json.Marshal(embeddingRequest{Model: model, Input: text})
	if err != nil {
		log.Errorf("marshal embedding request: %v", err)
		return nil
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		timeout := firstAttemptTimeout
		if attempt > 0 {
			timeout = retryAttemptTimeout
		}

		vec, rateLimited, err := c.attempt(ctx, endpoint, cfg, body, timeout, attempt)
		if vec != nil {
			if attempt > 0 {
				log.Warnf("embedding succeeded on attempt %d/%d", attempt+1, maxRetries)
			}
			return vec
		}

		if rateLimited {
			// Honor Retry-After when the server supplied one; the delay is
			// already resolved by attempt(). Rate limits always wait and
			// retry, still bounded by the attempt cap.
			lastErr = err
			continue
		}

		lastErr = err
		log.Warnf("openai embedding error (attempt %d/%d): %v", attempt+1, maxRetries, err)

		if attempt < maxRetries-1 {
			delay := backoffDelay(attempt)
			log.Warnf("retrying embedding in %.1fs", delay.Seconds())
			c.sleep(delay)
		}
	}

	log.Errorf("openai embedding failed after %d attempts. Last error: %v. Text length: %d chars",
		maxRetries, lastErr, len(text))
	return nil
}

// attempt performs one HTTP round trip. It returns the vector on success;
// rateLimited=true means a 429 was received and the appropriate delay has
// already been slept.
func (c *OpenAIClient) attempt(ctx context.Context, endpoint string, cfg remoteConfig, body []byte, timeout time.Duration, attempt int) (vec []float32, rateLimited bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setAuthHeaders(req.Header, cfg)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			return nil, false, errors.New("timeout")
		}
		return nil, false, fmt.Errorf("connection error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		delay, ok := retryAfterDelay(resp.Header.Get("Retry-After"))
		if !ok {
			delay = backoffDelay(attempt)
		}
		log.Warnf("rate limited, retrying in %.1fs", delay.Seconds())
		c.sleep(delay)
		return nil, true, errors.New("rate limited")
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, extractErrorMessage(respBody))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, false, fmt.Errorf("malformed response: %w", err)
	}

	if len(parsed.Data) > 0 && len(parsed.Data[0].Embedding) > 0 {
		return parsed.Data[0].Embedding, false, nil
	}

	// Some backends transiently return empty payloads on a 200; treat as
	// retryable rather than fatal.
	return nil, false, errors.New("empty embedding in response")
}

// retryAfterDelay parses a Retry-After header given in seconds.
// ok is false when the header is absent or unparseable, in which case the
// caller falls back to exponential backoff.
func retryAfterDelay(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(header, 64)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

// backoffDelay returns the exponential backoff wait for an attempt index.
func backoffDelay(attempt int) time.Duration {
	return retryBaseDelay * (1 << attempt)
}

// extractErrorMessage pulls error.message from a JSON error body, falling
// back to the first 200 bytes of the raw body.
func extractErrorMessage(body []byte) string {
	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}

// IsAvailable probes the models-listing endpoint with the configured key.
// No key means unavailable without a network call. Azure may 404 a generic
// /models listing while the embedding deployment is healthy, so 404 counts
// as available for that dialect only. Single probe, no retries.
func (c *OpenAIClient) IsAvailable(ctx context.Context) bool {
	cfg := c.loadConfig()
	if cfg.apiKey == "" {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, cfg.baseURL+"/models", nil)
	if err != nil {
		return false
	}
	setAuthHeaders(req.Header, cfg)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return true
	}
	return isAzureHost(cfg.baseURL) && resp.StatusCode == http.StatusNotFound
}

// ActiveModel returns the configured embedding model, or the fallback.
func (c *OpenAIClient) ActiveModel() string {
	return c.loadConfig().model
}

var _ Provider = (*OpenAIClient)(nil)
