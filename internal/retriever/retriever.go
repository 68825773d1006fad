package retriever

import (
	"context"
	"log"

	"github.com/dshills/repocontext-rag/internal/embedder"
	"github.com/dshills/repocontext-rag/internal/store"
)

// Config exposes the degraded-mode policy constants. Implementations may
// tune them, but DefaultConfig matches the documented fixed defaults.
type Config struct {
	// TopK is how many search results to retrieve for the normal path.
	TopK int
	// SimilarityThreshold is the strict lower bound a result's similarity
	// must exceed to count as "meaningful".
	SimilarityThreshold float64
	// DegradedFileCap bounds the file list shown in degraded-mode prompts.
	DegradedFileCap int
	// NormalFileCap bounds the file list shown in the normal-path prompt.
	NormalFileCap int
}

// DefaultConfig returns the documented fixed defaults: top-5 search,
// similarity threshold 0.1, and file-listing caps of 50 (degraded) and
// 100 (normal).
func DefaultConfig() Config {
	return Config{
		TopK:                 5,
		SimilarityThreshold:  0.1,
		DegradedFileCap:      50,
		NormalFileCap:        100,
	}
}

// Retriever answers questions about an indexed codebase by combining
// vector search with a chat model call.
type Retriever struct {
	store    store.Store
	embedder embedder.Client
	cfg      Config
	logger   *log.Logger
}

// New creates a Retriever. A zero Config is replaced with DefaultConfig;
// a nil logger defaults to log.Default().
func New(st store.Store, client embedder.Client, cfg Config, logger *log.Logger) *Retriever {
	if logger == nil {
		logger = log.Default()
	}
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Retriever{store: st, embedder: client, cfg: cfg, logger: logger}
}

// Ask answers a single question, branching through the degraded-mode
// policy documented on the prompt builders before falling through to the
// normal search-and-chat path.
func (r *Retriever) Ask(ctx context.Context, question string) string {
	files, err := r.store.AllFiles(ctx)
	if err != nil {
		r.logger.Printf("retriever: all_files: %v", err)
		files = nil
	}
	healthy := r.embedder.IsHealthy(ctx)

	if len(files) == 0 {
		return r.embedder.Chat(ctx, question, emptyIndexPrompt())
	}

	if !healthy {
		prompt := degradedFilesPrompt(files, r.cfg.DegradedFileCap, embedderUnavailableCaveat)
		return r.embedder.Chat(ctx, question, prompt)
	}

	qVec := r.embedder.Embed(ctx, question)
	if isZeroVector(qVec) {
		prompt := degradedFilesPrompt(files, r.cfg.DegradedFileCap, embeddingFailedCaveat)
		return r.embedder.Chat(ctx, question, prompt)
	}

	results, err := r.store.Search(ctx, qVec, r.cfg.TopK)
	if err != nil {
		r.logger.Printf("retriever: search: %v", err)
		results = nil
	}

	hasMeaningful := false
	for _, res := range results {
		if res.Similarity > r.cfg.SimilarityThreshold {
			hasMeaningful = true
			break
		}
	}

	prompt := buildSystemPrompt(files, r.cfg.NormalFileCap, results, hasMeaningful)
	return r.embedder.Chat(ctx, question, prompt)
}

func isZeroVector(v []float32) bool {
	if len(v) == 0 {
		return true
	}
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}
