package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/repocontext-rag/pkg/types"
)

func chunkWithEmbedding(id, path string, embedding []float32) *types.Chunk {
	return &types.Chunk{
		ID: id, FilePath: path, Content: "content", StartLine: 1, EndLine: 1,
		LastModified: time.Now().UTC(), Embedding: embedding,
	}
}

func TestMemoryStore_UpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, []*types.Chunk{chunkWithEmbedding("1", "a.cs", []float32{1, 0})}))
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{chunkWithEmbedding("1", "a.cs", []float32{0, 1})}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_SearchRanksBySimilarityDescending(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{
		chunkWithEmbedding("1", "a.cs", []float32{1, 0}),
		chunkWithEmbedding("2", "b.cs", []float32{0, 1}),
		chunkWithEmbedding("3", "c.cs", []float32{0.9, 0.1}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "1", results[0].Chunk.ID)
	assert.Equal(t, "3", results[1].Chunk.ID)
	assert.Equal(t, "2", results[2].Chunk.ID)
}

func TestMemoryStore_SearchTruncatesToLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{
		chunkWithEmbedding("1", "a.cs", []float32{1, 0}),
		chunkWithEmbedding("2", "b.cs", []float32{1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryStore_SearchExcludesChunksWithoutEmbedding(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	noEmbedding := &types.Chunk{ID: "1", FilePath: "a.cs", StartLine: 1, EndLine: 1}
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{noEmbedding}))

	results, err := s.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStore_AllFilesIsSortedAndDeduplicated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{
		chunkWithEmbedding("1", "b.cs", nil),
		chunkWithEmbedding("2", "a.cs", nil),
		chunkWithEmbedding("3", "a.cs", nil),
	}))

	files, err := s.AllFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.cs", "b.cs"}, files)
}

func TestMemoryStore_LastModifiedReturnsFalseWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, ok, err := s.LastModified(ctx, "missing.cs")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_DeleteFileChunksRemovesOnlyThatFile(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{
		chunkWithEmbedding("1", "a.cs", []float32{1}),
		chunkWithEmbedding("2", "b.cs", []float32{1}),
	}))

	require.NoError(t, s.DeleteFileChunks(ctx, "a.cs"))

	files, err := s.AllFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.cs"}, files)
}

func TestMemoryStore_ChunksForFileReturnsOnlyThatFileWithContentHash(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := chunkWithEmbedding("1", "a.cs", []float32{1})
	a.ComputeContentHash()
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{
		a,
		chunkWithEmbedding("2", "b.cs", []float32{1}),
	}))

	chunks, err := s.ChunksForFile(ctx, "a.cs")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "1", chunks[0].ID)
	assert.Equal(t, a.ContentHash, chunks[0].ContentHash)
}

func TestMemoryStore_ClearEmptiesStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, []*types.Chunk{chunkWithEmbedding("1", "a.cs", []float32{1})}))
	require.NoError(t, s.Clear(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
