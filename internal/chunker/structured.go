package chunker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// StructuredChunker is the first-class chunker for C#-family syntax. It
// emits one chunk per method declaration (function_name, enclosing
// class_name, exact line span, tags=["method"]). If the file contains no
// method declarations, it emits a single file-level chunk covering the
// entire text (tags=["file-level"]), or hands the file to Fallback when
// one is set. Only a blank file yields no chunks; the scanner has no
// failure case, so any other content produces at least one chunk.
//
// There is no C#-aware parsing library in the ecosystem this module draws
// on, so method boundaries are found by regex signature matching plus
// brace-depth tracking rather than a real syntax tree — best-effort, in
// the spirit of the corpus's AST visitors, but text-based.
type StructuredChunker struct {
	Fallback Chunker
}

// NewStructuredChunker creates a StructuredChunker. fallback is used when
// the file has no detected methods; pass nil to get a single file-level
// chunk in that case instead.
func NewStructuredChunker(fallback Chunker) *StructuredChunker {
	return &StructuredChunker{Fallback: fallback}
}

var classDeclRe = regexp.MustCompile(`(?m)^[ \t]*(?:\[[^\]]*\][ \t]*)*(?:(?:public|private|protected|internal|static|sealed|abstract|partial)[ \t]+)*class[ \t]+(\w+)`)

var methodDeclRe = regexp.MustCompile(`(?m)^[ \t]*(?:\[[^\]]*\][ \t]*)*(?:(?:public|private|protected|internal|static|virtual|override|abstract|async|sealed|partial|extern|unsafe|new|readonly)[ \t]+)*[\w<>\[\],\.\?]+[ \t]+(\w+)[ \t]*\(([^)]*)\)\s*(?:where[^{;]+)?\{`)

var nonMethodNames = map[string]bool{
	"if": true, "for": true, "foreach": true, "while": true, "switch": true,
	"catch": true, "using": true, "lock": true, "fixed": true, "else": true,
	"return": true, "class": true, "namespace": true, "get": true, "set": true,
	"try": true, "do": true,
}

// Chunk implements Chunker.
func (c *StructuredChunker) Chunk(filePath, content string) ([]*types.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	offsets := lineStartOffsets(content)

	classes := findClasses(content, offsets)
	methods := findMethods(content, offsets)

	if len(methods) == 0 {
		if c.Fallback != nil {
			return c.Fallback.Chunk(filePath, content)
		}
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		chunk := &types.Chunk{
			Content:   content,
			StartLine: 1,
			EndLine:   len(lines),
			Language:  LanguageForPath(filePath),
			Tags:      []string{"file-level"},
		}
		return finalizeChunks(filePath, []*types.Chunk{chunk}), nil
	}

	language := LanguageForPath(filePath)
	chunks := make([]*types.Chunk, 0, len(methods))
	for _, m := range methods {
		chunks = append(chunks, &types.Chunk{
			Content:      content[m.startByte:m.endByte],
			StartLine:    lineForOffset(offsets, m.startByte),
			EndLine:      lineForOffset(offsets, m.endByte),
			Language:     language,
			FunctionName: m.name,
			ClassName:    enclosingClass(classes, m.startByte),
			Tags:         []string{"method"},
		})
	}

	return finalizeChunks(filePath, chunks), nil
}

type classDecl struct {
	name       string
	startByte  int
	bodyStart  int // byte offset of the class's opening brace
	bodyEnd    int // byte offset of the matching closing brace
}

type methodDecl struct {
	name      string
	startByte int
	endByte   int
}

func findClasses(content string, offsets []int) []classDecl {
	_ = offsets
	matches := classDeclRe.FindAllStringSubmatchIndex(content, -1)
	classes := make([]classDecl, 0, len(matches))
	for _, m := range matches {
		name := content[m[2]:m[3]]
		braceIdx := strings.IndexByte(content[m[1]:], '{')
		if braceIdx < 0 {
			continue
		}
		bodyStart := m[1] + braceIdx
		bodyEnd := matchBrace(content, bodyStart)
		classes = append(classes, classDecl{
			name:      name,
			startByte: m[0],
			bodyStart: bodyStart,
			bodyEnd:   bodyEnd,
		})
	}
	return classes
}

func findMethods(content string, offsets []int) []methodDecl {
	_ = offsets
	matches := methodDeclRe.FindAllStringSubmatchIndex(content, -1)
	methods := make([]methodDecl, 0, len(matches))
	for _, m := range matches {
		name := content[m[2]:m[3]]
		if nonMethodNames[name] {
			continue
		}
		// The match's final '{' is the method's opening brace.
		bodyStart := m[1] - 1
		bodyEnd := matchBrace(content, bodyStart)
		if bodyEnd < 0 {
			continue
		}
		methods = append(methods, methodDecl{
			name:      name,
			startByte: m[0],
			endByte:   bodyEnd + 1,
		})
	}
	return dedupeMethods(methods)
}

// dedupeMethods drops methods wholly nested inside an earlier method match
// (the signature regex can occasionally match a local function too; we
// keep only outermost declarations to mirror one-chunk-per-method).
func dedupeMethods(methods []methodDecl) []methodDecl {
	sort.Slice(methods, func(i, j int) bool { return methods[i].startByte < methods[j].startByte })

	var result []methodDecl
	for _, m := range methods {
		if len(result) > 0 {
			last := result[len(result)-1]
			if m.startByte >= last.startByte && m.startByte < last.endByte {
				continue
			}
		}
		result = append(result, m)
	}
	return result
}

// matchBrace returns the byte offset of the brace matching the one at
// openIdx (which must itself be '{'), or -1 if unbalanced.
func matchBrace(content string, openIdx int) int {
	if openIdx < 0 || openIdx >= len(content) || content[openIdx] != '{' {
		return -1
	}
	depth := 0
	for i := openIdx; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func enclosingClass(classes []classDecl, pos int) string {
	best := ""
	bestSpan := -1
	for _, c := range classes {
		if pos >= c.bodyStart && pos <= c.bodyEnd {
			span := c.bodyEnd - c.bodyStart
			if bestSpan == -1 || span < bestSpan {
				best = c.name
				bestSpan = span
			}
		}
	}
	return best
}

// lineStartOffsets returns the byte offset of the first character of each
// 1-based line (index 0 is unused as a convenience; offsets[1] is line 1).
func lineStartOffsets(content string) []int {
	offsets := []int{0, 0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineForOffset returns the 1-based line number containing byte offset pos.
func lineForOffset(offsets []int, pos int) int {
	// offsets[1:] is sorted ascending; find the last line whose start <= pos.
	lo, hi := 1, len(offsets)-1
	line := 1
	for lo <= hi {
		mid := (lo + hi) / 2
		if offsets[mid] <= pos {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return line
}
