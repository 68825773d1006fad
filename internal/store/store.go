package store

import (
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// Store holds chunks with their embeddings and answers similarity
// searches. Upsert replaces an existing chunk sharing the same ID.
type Store interface {
	Upsert(ctx context.Context, chunks []*types.Chunk) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]types.SearchResult, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	AllFiles(ctx context.Context) ([]string, error)
	// LastModified returns the last_modified of the first chunk found
	// whose FilePath equals path, and whether any such chunk exists.
	LastModified(ctx context.Context, path string) (time.Time, bool, error)
	// ChunksForFile returns every stored chunk whose FilePath equals path,
	// including each chunk's ContentHash and Embedding, so a caller can
	// detect which spans are unchanged across a re-index.
	ChunksForFile(ctx context.Context, path string) ([]*types.Chunk, error)
	DeleteFileChunks(ctx context.Context, path string) error
	Close() error
}

// cosineSimilarity computes the cosine similarity of two equal-length
// vectors, returning 0 for length mismatches or zero-norm vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// serializeVector encodes a vector as a little-endian float32 blob, the
// wire format used to persist embeddings in SQLiteStore.
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector decodes a blob produced by serializeVector.
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}
