package indexer

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/repocontext-rag/internal/detector"
	"github.com/dshills/repocontext-rag/internal/store"
	"github.com/dshills/repocontext-rag/pkg/types"
)

type fakeEmbedder struct {
	batchCalls atomic.Int32
	delay      time.Duration
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) []float32 {
	return []float32{1, 0}
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	f.batchCalls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors
}

func (f *fakeEmbedder) Chat(ctx context.Context, userPrompt, systemPrompt string) string {
	return "answer"
}

func (f *fakeEmbedder) IsHealthy(ctx context.Context) bool { return true }
func (f *fakeEmbedder) Dimension() int                     { return 2 }

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func waitUntilIdle(t *testing.T, idx *Indexer) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !idx.Status().IsIndexing {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("indexer did not finish in time")
}

func TestIndexer_IndexesFilesAndEmbeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Widget.cs", "public class Widget\n{\n    public void Ping()\n    {\n        Do();\n    }\n}\n")

	st := store.NewMemoryStore()
	fe := &fakeEmbedder{}
	idx := New(st, fe, detector.New(testLogger()), Config{}, testLogger())

	require.NoError(t, idx.StartIndexing(dir, nil))
	waitUntilIdle(t, idx)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	status := idx.Status()
	assert.Equal(t, 1, status.TotalFiles)
	assert.Equal(t, 1, status.ProcessedFiles)
}

func TestIndexer_RejectsConcurrentStart(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFile(t, dir, filepath.Join("pkg", "f"+string(rune('a'+i))+".cs"), "public class C { public void M() { X(); } }")
	}

	st := store.NewMemoryStore()
	fe := &fakeEmbedder{delay: 100 * time.Millisecond}
	idx := New(st, fe, detector.New(testLogger()), Config{}, testLogger())

	require.NoError(t, idx.StartIndexing(dir, nil))
	err := idx.StartIndexing(dir, nil)
	assert.ErrorIs(t, err, types.ErrAlreadyIndexing)

	waitUntilIdle(t, idx)
}

func TestIndexer_SkipsUnchangedFilesOnReindex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cs", "public class A { public void M() { X(); } }")

	st := store.NewMemoryStore()
	fe := &fakeEmbedder{}
	idx := New(st, fe, detector.New(testLogger()), Config{}, testLogger())

	require.NoError(t, idx.StartIndexing(dir, nil))
	waitUntilIdle(t, idx)
	firstCalls := fe.batchCalls.Load()

	require.NoError(t, idx.StartIndexing(dir, nil))
	waitUntilIdle(t, idx)

	assert.Equal(t, firstCalls, fe.batchCalls.Load())
	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndexer_ReindexesTouchedFileWithoutDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.cs", "public class A { public void M() { X(); } }")

	st := store.NewMemoryStore()
	fe := &fakeEmbedder{}
	idx := New(st, fe, detector.New(testLogger()), Config{}, testLogger())

	require.NoError(t, idx.StartIndexing(dir, nil))
	waitUntilIdle(t, idx)

	future := time.Now().Add(1 * time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	require.NoError(t, os.WriteFile(path, []byte("public class A { public void M() { Y(); } public void N() { Z(); } }"), 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	require.NoError(t, idx.StartIndexing(dir, nil))
	waitUntilIdle(t, idx)

	files, err := st.AllFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestIndexer_ReusesEmbeddingForUnchangedChunkOnTouchedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.cs", "public class A { public void M() { X(); } }")

	st := store.NewMemoryStore()
	fe := &fakeEmbedder{}
	idx := New(st, fe, detector.New(testLogger()), Config{}, testLogger())

	require.NoError(t, idx.StartIndexing(dir, nil))
	waitUntilIdle(t, idx)
	firstCalls := fe.batchCalls.Load()

	future := time.Now().Add(1 * time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	require.NoError(t, idx.StartIndexing(dir, nil))
	waitUntilIdle(t, idx)

	assert.Equal(t, firstCalls, fe.batchCalls.Load(), "unchanged chunk content should not trigger re-embedding")

	chunks, err := st.ChunksForFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.NotEmpty(t, chunks[0].Embedding)
}

func TestIndexer_FailsFastOnMissingRoot(t *testing.T) {
	st := store.NewMemoryStore()
	fe := &fakeEmbedder{}
	idx := New(st, fe, detector.New(testLogger()), Config{}, testLogger())

	require.NoError(t, idx.StartIndexing(filepath.Join(t.TempDir(), "does-not-exist"), nil))
	waitUntilIdle(t, idx)

	status := idx.Status()
	assert.Contains(t, status.Message, "not found")
}

func TestIndexer_CancellationStopsJob(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, dir, "f"+string(rune('a'+i))+".cs", "public class C { public void M() { X(); } }")
	}

	st := store.NewMemoryStore()
	fe := &fakeEmbedder{delay: 50 * time.Millisecond}
	idx := New(st, fe, detector.New(testLogger()), Config{Concurrency: 1}, testLogger())

	require.NoError(t, idx.StartIndexing(dir, nil))
	idx.CancelIndexing()
	waitUntilIdle(t, idx)

	status := idx.Status()
	assert.LessOrEqual(t, status.ProcessedFiles, status.TotalFiles)
}

func TestIndexer_CancelWhenIdleIsNoop(t *testing.T) {
	st := store.NewMemoryStore()
	fe := &fakeEmbedder{}
	idx := New(st, fe, detector.New(testLogger()), Config{}, testLogger())

	idx.CancelIndexing()
	assert.False(t, idx.Status().IsIndexing)
}
