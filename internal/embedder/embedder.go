package embedder

import (
	"context"
	"time"
)

// Config configures an embedding/chat client.
type Config struct {
	BaseURL        string
	EmbeddingModel string
	ChatModel      string

	// RequestTimeout bounds embed and chat calls.
	RequestTimeout time.Duration
	// HealthTimeout bounds the GET /api/tags liveness probe.
	HealthTimeout time.Duration

	MaxRetries            int
	RetryDelayBaseSeconds int

	// FallbackEmbeddingDimension is the length of the zero vector returned
	// when an embed call cannot be satisfied.
	FallbackEmbeddingDimension int

	// CacheSize bounds the LRU embedding cache. Zero means DefaultCacheSize.
	CacheSize int
}

// DefaultCacheSize is used when Config.CacheSize is zero.
const DefaultCacheSize = 10000

// FixedApology is returned by Chat when every retry attempt fails.
const FixedApology = "I'm unable to answer right now because the language model is unavailable. Please try again shortly."

// EmptyResponseMessage is returned by Chat when the model responds
// successfully but with an empty message body.
const EmptyResponseMessage = "empty response"

// DefaultConfig returns the documented defaults.
func DefaultConfig(baseURL, embeddingModel, chatModel string) Config {
	return Config{
		BaseURL:                    baseURL,
		EmbeddingModel:             embeddingModel,
		ChatModel:                  chatModel,
		RequestTimeout:             5 * time.Minute,
		HealthTimeout:              10 * time.Second,
		MaxRetries:                 3,
		RetryDelayBaseSeconds:      2,
		FallbackEmbeddingDimension: 384,
		CacheSize:                  DefaultCacheSize,
	}
}

// Client is the capability this system needs from a remote model server:
// embed, embed in bulk, chat, and report health. No method returns a
// transport error; every failure mode degrades to a documented fallback
// value so callers never need failure-path branching of their own.
type Client interface {
	Embed(ctx context.Context, text string) []float32
	EmbedBatch(ctx context.Context, texts []string) [][]float32
	Chat(ctx context.Context, userPrompt, systemPrompt string) string
	IsHealthy(ctx context.Context) bool
	// Dimension reports the vector length this client produces, whether
	// from a real embedding or the zero-vector fallback.
	Dimension() int
}
