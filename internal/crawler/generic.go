package crawler

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// GenericCrawler is the default crawler: it accepts every non-binary file
// under root and dispatches to a chunker chosen by extension.
type GenericCrawler struct {
	logger *log.Logger
}

// NewGenericCrawler creates a GenericCrawler. A nil logger defaults to
// log.Default().
func NewGenericCrawler(logger *log.Logger) *GenericCrawler {
	if logger == nil {
		logger = log.Default()
	}
	return &GenericCrawler{logger: logger}
}

// Scan implements Crawler.
func (g *GenericCrawler) Scan(root string, excludePatterns []string) ([]string, error) {
	return walk(root, excludePatterns, func(path string) bool { return true })
}

// Process implements Crawler.
func (g *GenericCrawler) Process(path string) ([]*types.Chunk, error) {
	if strings.ToLower(filepath.Ext(path)) == ".exe" {
		info, err := os.Stat(path)
		if err != nil {
			g.logger.Printf("crawler: stat %s: %v", path, err)
			return nil, nil
		}
		return []*types.Chunk{exeMetadataChunk(path, info)}, nil
	}

	content, mtime, ok := readForProcessing(path, g.logger)
	if !ok {
		return nil, nil
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	chunks, err := chunkerFor(path).Chunk(path, content)
	if err != nil {
		g.logger.Printf("crawler: chunk %s: %v", path, err)
		return nil, nil
	}
	return stampModTime(chunks, mtime), nil
}
