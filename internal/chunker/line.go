package chunker

import (
	"strings"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// LineChunker walks a file's lines in order, accumulating them into a
// chunk until appending the next line would exceed TargetSize, at which
// point it emits the current chunk and starts a new one at the next line.
// There is no overlap between chunks.
type LineChunker struct {
	// TargetSize is the target maximum character count per chunk.
	// Zero means TargetChunkSize.
	TargetSize int
}

// NewLineChunker creates a LineChunker with the default target size.
func NewLineChunker() *LineChunker {
	return &LineChunker{TargetSize: TargetChunkSize}
}

// Chunk implements Chunker.
func (c *LineChunker) Chunk(filePath, content string) ([]*types.Chunk, error) {
	target := c.TargetSize
	if target <= 0 {
		target = TargetChunkSize
	}
	language := LanguageForPath(filePath)

	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	lines := strings.Split(content, "\n")
	lastLine := len(lines)
	if strings.HasSuffix(content, "\n") {
		// The empty element after a final newline is not a line of its own.
		lastLine--
	}

	var chunks []*types.Chunk
	var b strings.Builder
	startLine := 1

	flush := func(endLine int) {
		if b.Len() == 0 {
			return
		}
		chunks = append(chunks, &types.Chunk{
			Content:   b.String(),
			StartLine: startLine,
			EndLine:   endLine,
			Language:  language,
		})
		b.Reset()
	}

	for i, line := range lines {
		lineNo := i + 1
		addition := len(line)
		if b.Len() > 0 {
			addition++ // for the joining newline
		}

		if b.Len() > 0 && b.Len()+addition > target {
			flush(lineNo - 1)
			startLine = lineNo
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	flush(lastLine)

	return finalizeChunks(filePath, chunks), nil
}
