package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// MemoryStore is the in-memory reference Store. A single sync.RWMutex
// enforces exclusive-write, concurrent-read access: writers never observe
// a torn map and readers never observe a partially-applied upsert.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]*types.Chunk
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]*types.Chunk)}
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(_ context.Context, chunks []*types.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.chunks[c.ID] = c
	}
	return nil
}

// Search implements Store: brute-force cosine similarity over every chunk
// with a non-nil embedding, sorted descending, truncated to limit.
func (s *MemoryStore) Search(_ context.Context, queryVector []float32, limit int) ([]types.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]types.SearchResult, 0, len(s.chunks))
	for _, c := range s.chunks {
		if len(c.Embedding) == 0 {
			continue
		}
		results = append(results, types.SearchResult{
			Chunk:      *c,
			Similarity: cosineSimilarity(queryVector, c.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })

	if limit >= 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]*types.Chunk)
	return nil
}

// AllFiles implements Store.
func (s *MemoryStore) AllFiles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var files []string
	for _, c := range s.chunks {
		if !seen[c.FilePath] {
			seen[c.FilePath] = true
			files = append(files, c.FilePath)
		}
	}
	sort.Strings(files)
	return files, nil
}

// LastModified implements Store.
func (s *MemoryStore) LastModified(_ context.Context, path string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.chunks {
		if c.FilePath == path {
			return c.LastModified, true, nil
		}
	}
	return time.Time{}, false, nil
}

// ChunksForFile implements Store.
func (s *MemoryStore) ChunksForFile(_ context.Context, path string) ([]*types.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []*types.Chunk
	for _, c := range s.chunks {
		if c.FilePath == path {
			cp := *c
			chunks = append(chunks, &cp)
		}
	}
	return chunks, nil
}

// DeleteFileChunks implements Store.
func (s *MemoryStore) DeleteFileChunks(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.chunks {
		if c.FilePath == path {
			delete(s.chunks, id)
		}
	}
	return nil
}

// Close implements Store. MemoryStore holds no external resources.
func (s *MemoryStore) Close() error {
	return nil
}
