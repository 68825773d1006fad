package chunker

import (
	"strings"
	"unicode"

	"github.com/dshills/repocontext-rag/pkg/types"
)

// SQLChunker splits a file into statements on ';' terminators, respecting
// single- and double-quoted string literals and '-- ...' line comments,
// and classifies each statement by its leading keyword.
type SQLChunker struct{}

// NewSQLChunker creates a SQLChunker.
func NewSQLChunker() *SQLChunker {
	return &SQLChunker{}
}

// sqlKeywordTags maps a normalized leading keyword phrase to its tag.
var sqlKeywordTags = []struct {
	prefix string
	tag    string
}{
	{"CREATE TABLE", "table-definition"},
	{"CREATE PROCEDURE", "stored-procedure"},
	{"CREATE FUNCTION", "function"},
	{"CREATE VIEW", "view"},
	{"CREATE INDEX", "index"},
	{"ALTER TABLE", "table-modification"},
	{"INSERT INTO", "data-insert"},
	{"UPDATE", "data-update"},
	{"DELETE FROM", "data-delete"},
	{"SELECT", "query"},
	{"DROP", "drop-statement"},
	{"EXEC", "execution"},
}

func classifyStatement(stmt string) string {
	text := strings.TrimSpace(stmt)
	// Leading '-- ...' comment lines are kept in the statement text but are
	// not its keyword.
	for strings.HasPrefix(text, "--") {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			text = ""
			break
		}
		text = strings.TrimSpace(text[nl+1:])
	}
	upper := strings.ToUpper(text)
	for _, k := range sqlKeywordTags {
		if strings.HasPrefix(upper, k.prefix) {
			return k.tag
		}
	}
	return "sql-statement"
}

// sqlStatement is one split-out statement plus its 1-based line span.
type sqlStatement struct {
	text      string
	startLine int
	endLine   int
}

// splitStatements scans content for ';' terminators outside of string
// literals and line comments, tracking line numbers by counting newlines
// consumed rather than by substring search (see DESIGN.md's Open Question
// decision on SQL line-number assignment).
func splitStatements(content string) []sqlStatement {
	var statements []sqlStatement

	line := 1
	stmtStartLine := 1
	var b strings.Builder

	runes := []rune(content)
	n := len(runes)

	for i := 0; i < n; i++ {
		ch := runes[i]

		switch ch {
		case '\'', '"':
			quote := ch
			b.WriteRune(ch)
			i++
			for i < n {
				b.WriteRune(runes[i])
				if runes[i] == '\n' {
					line++
				}
				if runes[i] == quote {
					break
				}
				i++
			}
			continue
		case '-':
			if i+1 < n && runes[i+1] == '-' {
				// Line comment: ';' inside it is not a terminator, but its
				// text is kept verbatim so statement round-tripping holds.
				for i < n && runes[i] != '\n' {
					b.WriteRune(runes[i])
					i++
				}
				if i < n {
					b.WriteRune(runes[i])
					line++
				}
				continue
			}
			b.WriteRune(ch)
			continue
		case '\n':
			line++
			b.WriteRune(ch)
			continue
		case ';':
			raw := b.String()
			text := strings.TrimSpace(raw)
			if text != "" {
				statements = append(statements, sqlStatement{
					text:      text,
					startLine: stmtStartLine + strings.Count(leadingSpace(raw), "\n"),
					endLine:   line,
				})
			}
			b.Reset()
			stmtStartLine = line
			continue
		default:
			b.WriteRune(ch)
		}
	}

	raw := b.String()
	if tail := strings.TrimSpace(raw); tail != "" {
		trailing := raw[len(strings.TrimRightFunc(raw, unicode.IsSpace)):]
		statements = append(statements, sqlStatement{
			text:      tail,
			startLine: stmtStartLine + strings.Count(leadingSpace(raw), "\n"),
			endLine:   line - strings.Count(trailing, "\n"),
		})
	}

	return statements
}

// leadingSpace returns the whitespace prefix of s.
func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeftFunc(s, unicode.IsSpace))]
}

// Chunk implements Chunker.
func (c *SQLChunker) Chunk(filePath, content string) ([]*types.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	statements := splitStatements(content)

	chunks := make([]*types.Chunk, 0, len(statements))
	for _, stmt := range statements {
		chunks = append(chunks, &types.Chunk{
			Content:   stmt.text,
			StartLine: stmt.startLine,
			EndLine:   stmt.endLine,
			Language:  "sql",
			Tags:      []string{classifyStatement(stmt.text)},
		})
	}

	return finalizeChunks(filePath, chunks), nil
}
