package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLChunker_ClassifiesStatements(t *testing.T) {
	content := `CREATE TABLE t(id int); INSERT INTO t VALUES(1);`

	c := NewSQLChunker()
	chunks, err := c.Chunk("/repo/schema.sql", content)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, []string{"table-definition"}, chunks[0].Tags)
	assert.Equal(t, []string{"data-insert"}, chunks[1].Tags)
	assert.Equal(t, "sql", chunks[0].Language)

	// Contiguous, non-overlapping spans.
	assert.LessOrEqual(t, chunks[0].StartLine, chunks[0].EndLine)
	assert.LessOrEqual(t, chunks[0].EndLine, chunks[1].StartLine)
}

func TestSQLChunker_IgnoresSemicolonInStringLiteral(t *testing.T) {
	content := "INSERT INTO t (name) VALUES ('a;b');\n"

	c := NewSQLChunker()
	chunks, err := c.Chunk("/repo/data.sql", content)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "'a;b'")
}

func TestSQLChunker_IgnoresSemicolonInLineComment(t *testing.T) {
	content := "-- drop old rows; keep new ones\nDELETE FROM t WHERE old = 1;\n"

	c := NewSQLChunker()
	chunks, err := c.Chunk("/repo/cleanup.sql", content)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"data-delete"}, chunks[0].Tags)
}

func TestSQLChunker_EmptyFileYieldsNoChunks(t *testing.T) {
	c := NewSQLChunker()
	chunks, err := c.Chunk("/repo/empty.sql", "   \n\n  ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSQLChunker_UnknownLeadingKeyword(t *testing.T) {
	c := NewSQLChunker()
	chunks, err := c.Chunk("/repo/x.sql", "BEGIN TRANSACTION;")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"sql-statement"}, chunks[0].Tags)
}
