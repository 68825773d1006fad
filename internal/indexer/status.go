package indexer

import (
	"fmt"
	"sync"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// statusHolder is the only writer of an IndexingStatus; Snapshot gives
// callers a torn-free copy read concurrently with those writes.
type statusHolder struct {
	mu     sync.RWMutex
	status types.IndexingStatus
}

func (h *statusHolder) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = types.IndexingStatus{IsIndexing: true, Message: "Scanning files…"}
}

func (h *statusHolder) fail(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.IsIndexing = false
	h.status.Message = message
}

func (h *statusHolder) setTotal(total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.TotalFiles = total
	h.status.Message = fmt.Sprintf("Indexing %d files…", total)
}

func (h *statusHolder) setCurrentFile(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.CurrentFile = path
}

func (h *statusHolder) incProcessed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.ProcessedFiles++
}

func (h *statusHolder) finishCompleted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.IsIndexing = false
	h.status.CurrentFile = ""
	h.status.Message = fmt.Sprintf("Indexing complete: %d/%d files processed", h.status.ProcessedFiles, h.status.TotalFiles)
}

func (h *statusHolder) finishCancelled() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.IsIndexing = false
	h.status.CurrentFile = ""
	h.status.Message = fmt.Sprintf("Indexing cancelled after %d/%d files", h.status.ProcessedFiles, h.status.TotalFiles)
}

func (h *statusHolder) snapshot() types.IndexingStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status.Snapshot()
}
