package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredChunker_OneChunkPerMethod(t *testing.T) {
	content := `namespace Demo
{
    public class Widget
    {
        public int Add(int a, int b)
        {
            return a + b;
        }

        private void Reset()
        {
            count = 0;
        }
    }
}
`
	c := NewStructuredChunker(nil)
	chunks, err := c.Chunk("/repo/Widget.cs", content)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Add", chunks[0].FunctionName)
	assert.Equal(t, "Widget", chunks[0].ClassName)
	assert.Equal(t, []string{"method"}, chunks[0].Tags)
	assert.Contains(t, chunks[0].Content, "return a + b;")

	assert.Equal(t, "Reset", chunks[1].FunctionName)
	assert.Equal(t, "Widget", chunks[1].ClassName)
}

func TestStructuredChunker_FileLevelFallbackWhenNoMethods(t *testing.T) {
	content := `namespace Demo
{
    public class Marker
    {
        public const int Version = 1;
    }
}
`
	c := NewStructuredChunker(nil)
	chunks, err := c.Chunk("/repo/Marker.cs", content)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"file-level"}, chunks[0].Tags)
	assert.Equal(t, 1, chunks[0].StartLine)
}

func TestStructuredChunker_FallsBackToProvidedChunkerWhenNoMethods(t *testing.T) {
	content := "public class Empty {\n    // nothing callable\n}\n"
	c := NewStructuredChunker(NewLineChunker())
	chunks, err := c.Chunk("/repo/Empty.cs", content)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Nil(t, chunks[0].Tags)
}

func TestStructuredChunker_EmptyFileYieldsNoChunks(t *testing.T) {
	c := NewStructuredChunker(nil)
	chunks, err := c.Chunk("/repo/empty.cs", "   \n  \n")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestStructuredChunker_NestedClassMethodsGetInnerClassName(t *testing.T) {
	content := `public class Outer
{
    public class Inner
    {
        public void Ping()
        {
            DoSomething();
        }
    }
}
`
	c := NewStructuredChunker(nil)
	chunks, err := c.Chunk("/repo/Outer.cs", content)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Inner", chunks[0].ClassName)
}
