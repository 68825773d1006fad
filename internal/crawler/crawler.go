package crawler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/repocontext-rag/internal/chunker"
	"github.com/dshills/repocontext-rag/internal/detector"
	"github.com/dshills/repocontext-rag/pkg/types"
)

// MaxFileSize is the largest file the crawler will read into memory.
// Larger files are skipped and logged rather than truncated.
const MaxFileSize = 1 << 20 // ~1 MiB

// binaryExtensions are never read as text, regardless of exclude patterns.
var binaryExtensions = map[string]bool{
	".dll": true, ".pdb": true, ".bin": true, ".png": true, ".jpg": true,
	".jpeg": true, ".gif": true, ".ico": true, ".zip": true, ".7z": true,
	".tar": true, ".gz": true, ".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true,
}

// implicitExcludeDirs are always skipped, on top of any caller-supplied
// exclude patterns.
var implicitExcludeDirs = []string{"bin", "obj", ".git", "node_modules"}

// Crawler enumerates files under a project root and turns each one into
// chunks.
type Crawler interface {
	// Scan recursively enumerates files under root, filtering out binary
	// extensions and paths matching excludePatterns (case-insensitive
	// substring, evaluated against the full path). The returned slice is
	// order-stable across calls against an unchanged tree.
	Scan(root string, excludePatterns []string) ([]string, error)

	// Process reads a single file (already yielded by Scan) and returns
	// its chunks, with LastModified stamped from the file's UTC mtime.
	// I/O errors and oversized files yield zero chunks; the error return
	// is reserved for a missing/unreadable root, not per-file problems.
	Process(path string) ([]*types.Chunk, error)
}

// New returns a crawler specialized for the given project archetype. Only
// SQLDatabase gets a specialized crawler today; every other archetype uses
// the generic, extension-dispatching crawler.
func New(archetype detector.ProjectType, logger *log.Logger) Crawler {
	if logger == nil {
		logger = log.Default()
	}
	if archetype == detector.SQLDatabase {
		return NewSQLCrawler(logger)
	}
	return NewGenericCrawler(logger)
}

func isExcludedDir(name string) bool {
	for _, d := range implicitExcludeDirs {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

func matchesExcludePattern(path string, patterns []string) bool {
	lower := strings.ToLower(path)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// walk is the shared filepath.Walk core: it visits every regular file
// under root, skipping implicit and caller-excluded directories, and
// hands each surviving path to accept for a final yes/no.
func walk(root string, excludePatterns []string, accept func(path string) bool) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && isExcludedDir(info.Name()) {
				return filepath.SkipDir
			}
			if path != root && matchesExcludePattern(path, excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesExcludePattern(path, excludePatterns) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if binaryExtensions[ext] {
			return nil
		}
		if accept(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crawler: scan %s: %w", root, err)
	}
	return files, nil
}

// readForProcessing stat's and reads path, rejecting anything over
// MaxFileSize. It returns (content, mtime, ok); ok is false when the file
// should yield zero chunks (oversized, unreadable, or an I/O error, all of
// which are logged rather than surfaced as an error).
func readForProcessing(path string, logger *log.Logger) (string, time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Printf("crawler: stat %s: %v", path, err)
		return "", time.Time{}, false
	}
	if info.Size() > MaxFileSize {
		logger.Printf("crawler: skipping %s: %d bytes exceeds max file size", path, info.Size())
		return "", time.Time{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("crawler: read %s: %v", path, err)
		return "", time.Time{}, false
	}

	return string(data), info.ModTime().UTC(), true
}

// stampModTime sets LastModified on every chunk to mtime.
func stampModTime(chunks []*types.Chunk, mtime time.Time) []*types.Chunk {
	for _, c := range chunks {
		c.LastModified = mtime
	}
	return chunks
}

// chunkerFor returns the chunker appropriate for path's extension.
func chunkerFor(path string) chunker.Chunker {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".cs", ".razor", ".cshtml":
		return chunker.NewStructuredChunker(chunker.NewLineChunker())
	case ".sql":
		sqlChunker := chunker.NewSQLChunker()
		return &sqlSizedChunker{inner: sqlChunker}
	default:
		return chunker.NewLineChunker()
	}
}

// sqlSizedChunker adapts SQLChunker to the shared Chunker interface. It
// passes every call straight through and applies no size limit: the SQL
// chunker's unit is a full statement, not a size-bounded window.
type sqlSizedChunker struct {
	inner *chunker.SQLChunker
}

func (s *sqlSizedChunker) Chunk(filePath, content string) ([]*types.Chunk, error) {
	return s.inner.Chunk(filePath, content)
}

// exeMetadataChunk builds the single synthetic chunk emitted for .exe
// files. Its content is never read.
func exeMetadataChunk(path string, info os.FileInfo) *types.Chunk {
	c := &types.Chunk{
		FilePath:     path,
		FileName:     filepath.Base(path),
		Content:      fmt.Sprintf("binary executable %s, %d bytes, modified %s", info.Name(), info.Size(), info.ModTime().UTC().Format(time.RFC3339)),
		StartLine:    1,
		EndLine:      1,
		Language:     "binary",
		Tags:         []string{"binary-metadata"},
		LastModified: info.ModTime().UTC(),
	}
	c.ComputeID()
	c.ComputeContentHash()
	c.EstimateTokenCount()
	return c
}
