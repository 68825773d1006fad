package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// OllamaClient is the Client implementation for an Ollama-compatible
// remote model server.
type OllamaClient struct {
	cfg    Config
	http   *http.Client
	cache  *Cache
	logger *log.Logger

	healthMu    sync.RWMutex
	healthy     bool
	lastChecked time.Time
}

// NewOllamaClient creates an OllamaClient. A nil logger defaults to
// log.Default(). The client starts optimistically healthy; the first
// failed call or stale health probe corrects that.
func NewOllamaClient(cfg Config, logger *log.Logger) *OllamaClient {
	if logger == nil {
		logger = log.Default()
	}
	return &OllamaClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		cache:   NewCache(cfg.CacheSize),
		logger:  logger,
		healthy: true,
	}
}

type embedWireRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedWireResponse struct {
	Embedding []float32 `json:"embedding"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatWireRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatWireResponse struct {
	Message chatMessage `json:"message"`
}

// Dimension implements Client by reporting the configured
// FallbackEmbeddingDimension. It does not look at the length of vectors
// the server returns.
func (c *OllamaClient) Dimension() int {
	return c.cfg.FallbackEmbeddingDimension
}

// Embed implements Client.
func (c *OllamaClient) Embed(ctx context.Context, text string) []float32 {
	hash := ComputeHash(text)
	if v, ok := c.cache.Get(hash); ok {
		return v
	}

	vector, err := retryWithBackoff(ctx, c.cfg.MaxRetries, c.cfg.RetryDelayBaseSeconds, func() ([]float32, error) {
		return c.embedOnce(ctx, text)
	})
	if err != nil {
		c.logger.Printf("embedder: embed failed after retries: %v", err)
		c.setHealthy(false)
		return c.fallbackVector()
	}
	if len(vector) == 0 {
		c.logger.Printf("embedder: server returned an empty vector")
		c.setHealthy(false)
		return c.fallbackVector()
	}

	c.setHealthy(true)
	c.cache.Set(hash, vector)
	return vector
}

func (c *OllamaClient) embedOnce(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedWireRequest{Model: c.cfg.EmbeddingModel, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result embedWireResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	return result.Embedding, nil
}

// EmbedBatch implements Client. Each text is embedded independently so
// one failure only degrades its own vector, not the whole batch.
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = c.Embed(ctx, text)
	}
	return vectors
}

// Chat implements Client.
func (c *OllamaClient) Chat(ctx context.Context, userPrompt, systemPrompt string) string {
	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	content, err := retryWithBackoff(ctx, c.cfg.MaxRetries, c.cfg.RetryDelayBaseSeconds, func() (string, error) {
		return c.chatOnce(ctx, messages)
	})
	if err != nil {
		c.logger.Printf("embedder: chat failed after retries: %v", err)
		c.setHealthy(false)
		return FixedApology
	}

	c.setHealthy(true)
	if content == "" {
		return EmptyResponseMessage
	}
	return content
}

func (c *OllamaClient) chatOnce(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatWireRequest{Model: c.cfg.ChatModel, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatWireResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	return result.Message.Content, nil
}

// IsHealthy implements Client. A healthy result is cached for 30 seconds;
// anything else triggers a fresh probe.
func (c *OllamaClient) IsHealthy(ctx context.Context) bool {
	c.healthMu.RLock()
	fresh := c.healthy && time.Since(c.lastChecked) < 30*time.Second
	healthy := c.healthy
	c.healthMu.RUnlock()
	if fresh {
		return healthy
	}
	return c.probeHealth(ctx)
}

func (c *OllamaClient) probeHealth(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		c.setHealthy(false)
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.setHealthy(false)
		return false
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.setHealthy(ok)
	return ok
}

func (c *OllamaClient) setHealthy(v bool) {
	c.healthMu.Lock()
	c.healthy = v
	c.lastChecked = time.Now()
	c.healthMu.Unlock()
}

func (c *OllamaClient) fallbackVector() []float32 {
	dim := c.cfg.FallbackEmbeddingDimension
	if dim <= 0 {
		dim = 384
	}
	return make([]float32, dim)
}
