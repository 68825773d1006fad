package retriever

import (
	"fmt"
	"strings"

	"github.com/dshills/repocontext-rag/pkg/types"
)

const embedderUnavailableCaveat = "The embedding model is currently unavailable, so file contents could not be searched. Answer using only the file list below, and tell the user that code content is unavailable right now."

const embeddingFailedCaveat = "The question could not be embedded, so file contents could not be searched. Answer using only the file list below, and tell the user that code content is unavailable right now."

func emptyIndexPrompt() string {
	return "This codebase has not been indexed yet, so no files are available. Tell the user the index is empty and suggest running indexing before asking further questions."
}

func degradedFilesPrompt(files []string, fileCap int, caveat string) string {
	listed, more := capFiles(files, fileCap)

	var b strings.Builder
	fmt.Fprintf(&b, "The codebase has %d files. %s\n\nFiles:\n", len(files), caveat)
	for _, f := range listed {
		b.WriteString("- " + f + "\n")
	}
	if more > 0 {
		fmt.Fprintf(&b, "...and %d more\n", more)
	}
	return b.String()
}

func buildSystemPrompt(files []string, fileCap int, results []types.SearchResult, hasMeaningful bool) string {
	listed, more := capFiles(files, fileCap)

	var b strings.Builder
	fmt.Fprintf(&b, "The codebase has %d files.\n\nFiles:\n", len(files))
	for _, f := range listed {
		b.WriteString("- " + f + "\n")
	}
	if more > 0 {
		fmt.Fprintf(&b, "...and %d more\n", more)
	}
	b.WriteString("\n")

	if hasMeaningful {
		b.WriteString("Relevant code snippets:\n\n")
		for _, res := range results {
			fmt.Fprintf(&b, "--- %s (lines %d-%d, similarity %.3f) ---\n%s\n\n",
				res.Chunk.FileName, res.Chunk.StartLine, res.Chunk.EndLine, res.Similarity, res.Chunk.Content)
		}
	} else {
		b.WriteString("No relevant code snippets were found for this question.\n")
	}

	return b.String()
}

func capFiles(files []string, limit int) (listed []string, more int) {
	if limit <= 0 || len(files) <= limit {
		return files, 0
	}
	return files[:limit], len(files) - limit
}
