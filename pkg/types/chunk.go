package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Chunk is a contiguous slice of one source file, the unit of retrieval.
type Chunk struct {
	// ID is a stable identifier derived from FilePath, StartLine, and
	// EndLine (see ComputeID). Re-chunking an unchanged span yields the
	// same ID, so an upsert naturally replaces it.
	ID string

	FilePath string // absolute path identifying the source file
	FileName string // basename

	Content string

	StartLine int // 1-based, inclusive
	EndLine   int // 1-based, inclusive

	LastModified time.Time // UTC timestamp of the source file at indexing time

	// Embedding is absent (nil) until the chunk has been embedded.
	Embedding []float32

	Language string // "csharp", "razor", "html", "javascript", ... "text"

	FunctionName string // populated by the structured chunker when available
	ClassName    string // enclosing class/type, when available

	Tags []string // "method", "file-level", "table-definition", ...

	// TokenCount is an informational chars/4 estimate; it does not gate
	// chunk emission, since target sizes in this system are character-based.
	TokenCount int

	// ContentHash is the SHA-256 of Content, used by the indexer to tell
	// whether a chunk actually changed within a file that otherwise needs
	// re-indexing, so unchanged chunks skip re-embedding.
	ContentHash [32]byte
}

// ComputeID derives the chunk's stable ID from its file path and line span.
func (c *Chunk) ComputeID() {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", c.FilePath, c.StartLine, c.EndLine)))
	c.ID = hex.EncodeToString(h[:])
}

// ComputeContentHash sets ContentHash from the current Content.
func (c *Chunk) ComputeContentHash() {
	c.ContentHash = sha256.Sum256([]byte(c.Content))
}

// EstimateTokenCount sets TokenCount using the chars/4 heuristic.
func (c *Chunk) EstimateTokenCount() {
	c.TokenCount = len(c.Content) / 4
}

// HasTag reports whether the chunk carries the given tag.
func (c *Chunk) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants every chunk must satisfy
// before it is handed to the store.
func (c *Chunk) Validate() error {
	if c.FilePath == "" {
		return errors.New("chunk: file path is required")
	}
	if c.StartLine <= 0 || c.EndLine <= 0 {
		return errors.New("chunk: line numbers must be positive")
	}
	if c.StartLine > c.EndLine {
		return errors.New("chunk: start line must be <= end line")
	}
	return nil
}
