package indexer

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/repocontext-rag/internal/crawler"
	"github.com/dshills/repocontext-rag/internal/detector"
	"github.com/dshills/repocontext-rag/internal/embedder"
	"github.com/dshills/repocontext-rag/internal/store"
	"github.com/dshills/repocontext-rag/pkg/types"
)

// Config configures an Indexer's concurrency and batching.
type Config struct {
	// Concurrency bounds simultaneous per-file processing tasks. Zero
	// means runtime.NumCPU().
	Concurrency int
	// BatchSize is how many chunks are embedded and upserted together.
	// Zero means DefaultBatchSize.
	BatchSize int
}

// DefaultBatchSize is the batch size used when Config.BatchSize is zero.
const DefaultBatchSize = 50

// Indexer is the single long-running coordinator for indexing jobs. Only
// one job runs at a time; a second StartIndexing call while one is in
// flight is rejected rather than queued.
type Indexer struct {
	store    store.Store
	embedder embedder.Client
	detector *detector.Detector
	logger   *log.Logger

	concurrency int
	batchSize   int

	lock   jobLock
	status statusHolder

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates an Indexer. A nil logger defaults to log.Default().
func New(st store.Store, client embedder.Client, det *detector.Detector, cfg Config, logger *log.Logger) *Indexer {
	if logger == nil {
		logger = log.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Indexer{
		store:       st,
		embedder:    client,
		detector:    det,
		logger:      logger,
		concurrency: concurrency,
		batchSize:   batchSize,
	}
}

// StartIndexing begins a non-blocking indexing run. It returns
// types.ErrAlreadyIndexing, without effect beyond a logged warning, if a
// job is already in flight.
func (idx *Indexer) StartIndexing(rootPath string, excludePatterns []string) error {
	rootPath = strings.Trim(strings.TrimSpace(rootPath), `"'`)

	if !idx.lock.tryAcquire() {
		idx.logger.Printf("indexer: start requested for %s while already indexing; ignoring", rootPath)
		return types.ErrAlreadyIndexing
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	idx.mu.Lock()
	idx.cancel = cancel
	idx.mu.Unlock()

	idx.status.reset()

	go idx.run(jobCtx, rootPath, excludePatterns)
	return nil
}

// CancelIndexing signals the in-flight job to stop at its next
// suspension point. Idempotent; a no-op when idle.
func (idx *Indexer) CancelIndexing() {
	idx.mu.Lock()
	cancel := idx.cancel
	idx.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Status returns a best-effort snapshot of the current IndexingStatus.
func (idx *Indexer) Status() types.IndexingStatus {
	return idx.status.snapshot()
}

func (idx *Indexer) run(ctx context.Context, rootPath string, excludePatterns []string) {
	defer idx.lock.release()
	defer func() {
		idx.mu.Lock()
		idx.cancel = nil
		idx.mu.Unlock()
	}()

	info, err := os.Stat(rootPath)
	if err != nil || !info.IsDir() {
		idx.status.fail(fmt.Sprintf("root path not found: %s", rootPath))
		return
	}

	archetype := idx.detector.Detect(rootPath)
	cr := crawler.New(archetype, idx.logger)

	files, err := cr.Scan(rootPath, excludePatterns)
	if err != nil {
		idx.status.fail(fmt.Sprintf("scan failed: %v", err))
		return
	}
	idx.status.setTotal(len(files))

	collector := &chunkCollector{}
	idx.processFiles(ctx, cr, files, collector)

	idx.embedAndUpsert(ctx, collector.all())

	if ctx.Err() != nil {
		idx.status.finishCancelled()
	} else {
		idx.status.finishCompleted()
	}
}

// processFiles runs crawler.Process over files with bounded concurrency,
// skipping unchanged files by mtime and depositing new chunks into
// collector. It stops scheduling further files once ctx is cancelled but
// lets in-flight tasks finish.
func (idx *Indexer) processFiles(ctx context.Context, cr crawler.Crawler, files []string, collector *chunkCollector) {
	sem := make(chan struct{}, idx.concurrency)
	g, gctx := errgroup.WithContext(ctx)

scheduleLoop:
	for _, path := range files {
		path := path

		select {
		case <-ctx.Done():
			break scheduleLoop
		default:
		}

		select {
		case <-ctx.Done():
			break scheduleLoop
		case sem <- struct{}{}:
		}

		g.Go(func() error {
			defer func() { <-sem }()
			idx.processFile(gctx, cr, path, collector)
			return nil
		})
	}

	_ = g.Wait()
}

func (idx *Indexer) processFile(ctx context.Context, cr crawler.Crawler, path string, collector *chunkCollector) {
	defer idx.status.incProcessed()

	info, err := os.Stat(path)
	if err != nil {
		idx.logger.Printf("indexer: stat %s: %v", path, err)
		return
	}
	mtime := info.ModTime().UTC()

	existing, ok, err := idx.store.LastModified(ctx, path)
	if err != nil {
		idx.logger.Printf("indexer: last_modified %s: %v", path, err)
		return
	}
	if ok && !existing.Before(mtime) {
		return
	}

	var priorByID map[string]*types.Chunk
	if ok {
		prior, err := idx.store.ChunksForFile(ctx, path)
		if err != nil {
			idx.logger.Printf("indexer: load existing chunks for %s: %v", path, err)
			return
		}
		priorByID = make(map[string]*types.Chunk, len(prior))
		for _, c := range prior {
			priorByID[c.ID] = c
		}
		if err := idx.store.DeleteFileChunks(ctx, path); err != nil {
			idx.logger.Printf("indexer: delete stale chunks for %s: %v", path, err)
			return
		}
	}

	idx.status.setCurrentFile(path)

	chunks, err := cr.Process(path)
	if err != nil {
		idx.logger.Printf("indexer: process %s: %v", path, err)
		return
	}
	for _, c := range chunks {
		c.LastModified = mtime
		// A span whose content hash is unchanged from the prior index run
		// reuses its old embedding instead of paying for re-embedding.
		if prior, found := priorByID[c.ID]; found && prior.ContentHash == c.ContentHash && len(prior.Embedding) > 0 {
			c.Embedding = prior.Embedding
		}
	}
	collector.add(chunks)
}

// embedAndUpsert slices chunks into batches, embeds only the chunks in each
// batch that don't already carry a reused embedding, assigns the returned
// vectors back in order, and upserts the whole batch. A batch failure is
// logged and only that batch is skipped.
func (idx *Indexer) embedAndUpsert(ctx context.Context, chunks []*types.Chunk) {
	for i := 0; i < len(chunks); i += idx.batchSize {
		if ctx.Err() != nil {
			return
		}

		end := i + idx.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		var pending []*types.Chunk
		var contents []string
		for _, c := range batch {
			if len(c.Embedding) == 0 {
				pending = append(pending, c)
				contents = append(contents, c.Content)
			}
		}

		if len(pending) > 0 {
			vectors := idx.embedder.EmbedBatch(ctx, contents)
			if len(vectors) != len(pending) {
				idx.logger.Printf("indexer: batch embed returned %d vectors for %d chunks, skipping batch", len(vectors), len(pending))
				continue
			}
			for j, v := range vectors {
				pending[j].Embedding = v
			}
		}

		if err := idx.store.Upsert(ctx, batch); err != nil {
			idx.logger.Printf("indexer: upsert batch: %v", err)
			continue
		}
	}
}
