package chunker

import (
	"path/filepath"
	"strings"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// TargetChunkSize is the target maximum character count per chunk for the
// generic line chunker and the structured-language file-level fallback.
const TargetChunkSize = 2000

// SQLTargetChunkSize is the nominal chunk size for database content, which
// tends to run longer per logical unit. SQLChunker does not enforce it:
// each statement becomes one chunk whatever its length.
const SQLTargetChunkSize = 3000

// Chunker turns the content of a single file into a sequence of chunks.
// Implementations stamp FilePath, FileName, and ComputeID on every chunk
// they emit; the crawler stamps LastModified after Chunk returns, since
// only it knows the file's mtime.
type Chunker interface {
	Chunk(filePath, content string) ([]*types.Chunk, error)
}

// extensionLanguage maps a lowercase file extension to a language tag.
var extensionLanguage = map[string]string{
	".cs":         "csharp",
	".razor":      "razor",
	".cshtml":     "razor",
	".html":       "html",
	".htm":        "html",
	".js":         "javascript",
	".jsx":        "javascript",
	".mjs":        "javascript",
	".ts":         "typescript",
	".tsx":        "typescript",
	".py":         "python",
	".sql":        "sql",
	".json":       "json",
	".xml":        "xml",
	".csproj":     "xml",
	".yaml":       "yaml",
	".yml":        "yaml",
	".md":         "markdown",
	".markdown":   "markdown",
	".txt":        "text",
}

// LanguageForPath returns the language tag for a file path's extension,
// defaulting to "text" for anything unrecognized.
func LanguageForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguage[ext]; ok {
		return lang
	}
	return "text"
}

// finalizeChunks stamps FilePath/FileName, computes each chunk's stable ID
// and content hash, and estimates its token count. Every chunker calls this
// on its output before returning.
func finalizeChunks(filePath string, chunks []*types.Chunk) []*types.Chunk {
	fileName := filepath.Base(filePath)
	for _, c := range chunks {
		c.FilePath = filePath
		c.FileName = fileName
		c.ComputeID()
		c.ComputeContentHash()
		c.EstimateTokenCount()
	}
	return chunks
}
