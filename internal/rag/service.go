package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dshills/repocontext-rag/internal/detector"
	"github.com/dshills/repocontext-rag/internal/embedder"
	"github.com/dshills/repocontext-rag/internal/indexer"
	"github.com/dshills/repocontext-rag/internal/retriever"
	"github.com/dshills/repocontext-rag/internal/store"
	"github.com/dshills/repocontext-rag/pkg/types"
)

// Service is the assembled entry point: it owns a detector, an embedding
// client, a vector store, an indexer, and a retriever, and exposes the
// operations an outer HTTP layer would adapt to JSON.
type Service struct {
	store     store.Store
	embedder  embedder.Client
	indexer   *indexer.Indexer
	retriever *retriever.Retriever
	logger    *log.Logger
}

// New assembles a Service from cfg. A nil logger defaults to
// log.Default().
func New(cfg Config, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.Default()
	}

	st, err := newStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("rag: build store: %w", err)
	}

	embedCfg := embedder.DefaultConfig(cfg.Ollama.BaseURL, cfg.Ollama.EmbeddingModel, cfg.Ollama.ChatModel)
	if cfg.Ollama.RequestTimeoutMinutes > 0 {
		embedCfg.RequestTimeout = time.Duration(cfg.Ollama.RequestTimeoutMinutes) * time.Minute
	}
	if cfg.Ollama.MaxRetries > 0 {
		embedCfg.MaxRetries = cfg.Ollama.MaxRetries
	}
	if cfg.Ollama.RetryDelaySeconds > 0 {
		embedCfg.RetryDelayBaseSeconds = cfg.Ollama.RetryDelaySeconds
	}
	if cfg.Ollama.FallbackEmbeddingDimension > 0 {
		embedCfg.FallbackEmbeddingDimension = cfg.Ollama.FallbackEmbeddingDimension
	}
	embedClient := embedder.NewOllamaClient(embedCfg, logger)

	det := detector.New(logger)

	idx := indexer.New(st, embedClient, det, indexer.Config{
		Concurrency: cfg.Indexing.MaxParallelism,
		BatchSize:   cfg.Indexing.EmbeddingBatchSize,
	}, logger)

	ret := retriever.New(st, embedClient, retriever.DefaultConfig(), logger)

	return &Service{
		store:     st,
		embedder:  embedClient,
		indexer:   idx,
		retriever: ret,
		logger:    logger,
	}, nil
}

func newStore(cfg StoreConfig) (store.Store, error) {
	switch strings.ToLower(cfg.DriverName) {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("rag: sqlite store requires Store.DBPath")
		}
		return store.NewSQLiteStore(cfg.DBPath)
	default:
		return nil, fmt.Errorf("rag: unknown store driver %q", cfg.DriverName)
	}
}

// StartIndexing begins a non-blocking indexing run rooted at root.
func (s *Service) StartIndexing(ctx context.Context, root string, excludePatterns []string) error {
	_ = ctx // job runs on its own background context; ctx here scopes only the request that started it
	if strings.TrimSpace(root) == "" {
		return types.ErrRootNotFound
	}
	return s.indexer.StartIndexing(root, excludePatterns)
}

// CancelIndexing signals the in-flight indexing job, if any, to stop.
func (s *Service) CancelIndexing() {
	s.indexer.CancelIndexing()
}

// Status returns the current indexing status.
func (s *Service) Status() types.IndexingStatus {
	return s.indexer.Status()
}

// ListFiles lists every indexed file's path.
func (s *Service) ListFiles() []string {
	files, err := s.store.AllFiles(context.Background())
	if err != nil {
		s.logger.Printf("rag: list files: %v", err)
		return nil
	}
	return files
}

// Ask answers a natural-language question about the indexed codebase.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", types.ErrEmptyQuestion
	}
	return s.retriever.Ask(ctx, question), nil
}

// Close releases the store's resources.
func (s *Service) Close() error {
	return s.store.Close()
}
