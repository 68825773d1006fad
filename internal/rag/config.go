package rag

// Config aggregates every configuration key the assembled system needs.
type Config struct {
	Indexing IndexingConfig
	Ollama   OllamaConfig
	Store    StoreConfig
}

// IndexingConfig configures the indexer's concurrency and batching.
type IndexingConfig struct {
	// MaxParallelism bounds simultaneous per-file processing. Zero means
	// the number of CPUs.
	MaxParallelism int
	// EmbeddingBatchSize is how many chunks are embedded together. Zero
	// means indexer.DefaultBatchSize.
	EmbeddingBatchSize int
}

// OllamaConfig configures the embedding/chat client.
type OllamaConfig struct {
	BaseURL                    string
	EmbeddingModel             string
	ChatModel                  string
	RequestTimeoutMinutes      int
	MaxRetries                 int
	RetryDelaySeconds          int
	FallbackEmbeddingDimension int
}

// StoreConfig selects and configures the vector store backing.
type StoreConfig struct {
	// DriverName is "memory" or "sqlite". Empty defaults to "memory".
	DriverName string
	// DBPath is the SQLite file path, used only when DriverName is
	// "sqlite".
	DBPath string
}

// DefaultConfig returns a Config pointed at a local Ollama instance with
// an in-memory store.
func DefaultConfig() Config {
	return Config{
		Ollama: OllamaConfig{
			BaseURL:                    "http://localhost:11434",
			EmbeddingModel:             "nomic-embed-text",
			ChatModel:                  "llama3",
			RequestTimeoutMinutes:      5,
			MaxRetries:                 3,
			RetryDelaySeconds:          2,
			FallbackEmbeddingDimension: 384,
		},
		Store: StoreConfig{DriverName: "memory"},
	}
}
