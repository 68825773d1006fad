package crawler

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/dshills/repocontext-rag/internal/chunker"
	"github.com/dshills/repocontext-rag/pkg/types"
)

// sqlExtensions are the file extensions the SQL crawler scans; anything
// else under the root is ignored even if present.
var sqlExtensions = map[string]bool{
	".sql": true, ".ddl": true, ".dml": true, ".psql": true, ".mysql": true,
}

// SQLCrawler is the specialized crawler for the SQLDatabase archetype. It
// restricts Scan to SQL/database files and always dispatches to the SQL
// chunker.
type SQLCrawler struct {
	logger  *log.Logger
	chunker *chunker.SQLChunker
}

// NewSQLCrawler creates a SQLCrawler. A nil logger defaults to log.Default().
func NewSQLCrawler(logger *log.Logger) *SQLCrawler {
	if logger == nil {
		logger = log.Default()
	}
	return &SQLCrawler{logger: logger, chunker: chunker.NewSQLChunker()}
}

// Scan implements Crawler.
func (s *SQLCrawler) Scan(root string, excludePatterns []string) ([]string, error) {
	return walk(root, excludePatterns, func(path string) bool {
		return sqlExtensions[strings.ToLower(filepath.Ext(path))]
	})
}

// Process implements Crawler.
func (s *SQLCrawler) Process(path string) ([]*types.Chunk, error) {
	content, mtime, ok := readForProcessing(path, s.logger)
	if !ok {
		return nil, nil
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	chunks, err := s.chunker.Chunk(path, content)
	if err != nil {
		s.logger.Printf("crawler: chunk %s: %v", path, err)
		return nil, nil
	}
	return stampModTime(chunks, mtime), nil
}
