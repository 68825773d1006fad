package indexer

import (
	"sync"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// chunkCollector accumulates chunks deposited by concurrently-running
// per-file tasks. It is unbounded: it holds every collected chunk until
// the scan has fully finished, and embedding then walks those chunks
// batch by batch.
type chunkCollector struct {
	mu     sync.Mutex
	chunks []*types.Chunk
}

func (c *chunkCollector) add(chunks []*types.Chunk) {
	if len(chunks) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, chunks...)
}

func (c *chunkCollector) all() []*types.Chunk {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chunks
}
