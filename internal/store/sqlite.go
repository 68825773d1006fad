package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dshills/repocontext-rag/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS text_contexts (
	id TEXT PRIMARY KEY,
	file_path TEXT NOT NULL,
	file_name TEXT NOT NULL,
	content TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	last_modified TIMESTAMP NOT NULL,
	language TEXT,
	function_name TEXT,
	class_name TEXT,
	tags TEXT,
	token_count INTEGER,
	content_hash BLOB,
	embedding BLOB
);
CREATE INDEX IF NOT EXISTS idx_text_contexts_file_path ON text_contexts(file_path);
`

// SQLiteStore is the optional durable Store backing. The schema is
// created lazily on first open if absent.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at
// dbPath and ensures its schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Upsert implements Store.
func (s *SQLiteStore) Upsert(ctx context.Context, chunks []*types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO text_contexts
			(id, file_path, file_name, content, start_line, end_line, last_modified,
			 language, function_name, class_name, tags, token_count, content_hash, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path=excluded.file_path, file_name=excluded.file_name,
			content=excluded.content, start_line=excluded.start_line,
			end_line=excluded.end_line, last_modified=excluded.last_modified,
			language=excluded.language, function_name=excluded.function_name,
			class_name=excluded.class_name, tags=excluded.tags,
			token_count=excluded.token_count, content_hash=excluded.content_hash,
			embedding=excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		var embedding []byte
		if len(c.Embedding) > 0 {
			embedding = serializeVector(c.Embedding)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.FilePath, c.FileName, c.Content,
			c.StartLine, c.EndLine, c.LastModified.UTC(), c.Language, c.FunctionName,
			c.ClassName, strings.Join(c.Tags, ","), c.TokenCount, c.ContentHash[:], embedding); err != nil {
			return fmt.Errorf("store: upsert %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Search implements Store, delegating to the SQL-level or Go-side path
// depending on whether the sqlite-vec extension is available.
func (s *SQLiteStore) Search(ctx context.Context, queryVector []float32, limit int) ([]types.SearchResult, error) {
	if VectorExtensionAvailable {
		return s.searchOptimized(ctx, queryVector, limit)
	}
	return s.searchFallback(ctx, queryVector, limit)
}

func (s *SQLiteStore) searchOptimized(ctx context.Context, queryVector []float32, limit int) ([]types.SearchResult, error) {
	blob := serializeVector(queryVector)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, file_name, content, start_line, end_line, last_modified,
		       language, function_name, class_name, tags, token_count, content_hash,
		       1.0 - vec_distance_cosine(embedding, ?) AS similarity
		FROM text_contexts
		WHERE embedding IS NOT NULL
		ORDER BY similarity DESC
		LIMIT ?
	`, blob, limit)
	if err != nil {
		return nil, fmt.Errorf("store: vector search: %w", err)
	}
	defer rows.Close()

	return scanSearchRows(rows)
}

func (s *SQLiteStore) searchFallback(ctx context.Context, queryVector []float32, limit int) ([]types.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, file_name, content, start_line, end_line, last_modified,
		       language, function_name, class_name, tags, token_count, content_hash, embedding
		FROM text_contexts
		WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query embeddings: %w", err)
	}
	defer rows.Close()

	var results []types.SearchResult
	for rows.Next() {
		var c types.Chunk
		var tags string
		var contentHash, embedding []byte
		if err := rows.Scan(&c.ID, &c.FilePath, &c.FileName, &c.Content, &c.StartLine,
			&c.EndLine, &c.LastModified, &c.Language, &c.FunctionName, &c.ClassName,
			&tags, &c.TokenCount, &contentHash, &embedding); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		c.Tags = splitTags(tags)
		copy(c.ContentHash[:], contentHash)
		c.Embedding = deserializeVector(embedding)

		results = append(results, types.SearchResult{
			Chunk:      c,
			Similarity: cosineSimilarity(queryVector, c.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if limit >= 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func scanSearchRows(rows *sql.Rows) ([]types.SearchResult, error) {
	var results []types.SearchResult
	for rows.Next() {
		var c types.Chunk
		var tags string
		var contentHash []byte
		var similarity float64
		if err := rows.Scan(&c.ID, &c.FilePath, &c.FileName, &c.Content, &c.StartLine,
			&c.EndLine, &c.LastModified, &c.Language, &c.FunctionName, &c.ClassName,
			&tags, &c.TokenCount, &contentHash, &similarity); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		c.Tags = splitTags(tags)
		copy(c.ContentHash[:], contentHash)
		results = append(results, types.SearchResult{Chunk: c, Similarity: similarity})
	}
	return results, rows.Err()
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM text_contexts").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM text_contexts"); err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	return nil
}

// AllFiles implements Store.
func (s *SQLiteStore) AllFiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT file_path FROM text_contexts ORDER BY file_path")
	if err != nil {
		return nil, fmt.Errorf("store: all files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// LastModified implements Store.
func (s *SQLiteStore) LastModified(ctx context.Context, path string) (time.Time, bool, error) {
	var t time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT last_modified FROM text_contexts WHERE file_path = ? LIMIT 1", path).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("store: last modified: %w", err)
	}
	return t, true, nil
}

// ChunksForFile implements Store.
func (s *SQLiteStore) ChunksForFile(ctx context.Context, path string) ([]*types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, file_name, content, start_line, end_line, last_modified,
		       language, function_name, class_name, tags, token_count, content_hash, embedding
		FROM text_contexts
		WHERE file_path = ?
	`, path)
	if err != nil {
		return nil, fmt.Errorf("store: chunks for file: %w", err)
	}
	defer rows.Close()

	var chunks []*types.Chunk
	for rows.Next() {
		var c types.Chunk
		var tags string
		var contentHash, embedding []byte
		if err := rows.Scan(&c.ID, &c.FilePath, &c.FileName, &c.Content, &c.StartLine,
			&c.EndLine, &c.LastModified, &c.Language, &c.FunctionName, &c.ClassName,
			&tags, &c.TokenCount, &contentHash, &embedding); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		c.Tags = splitTags(tags)
		copy(c.ContentHash[:], contentHash)
		if len(embedding) > 0 {
			c.Embedding = deserializeVector(embedding)
		}
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// DeleteFileChunks implements Store.
func (s *SQLiteStore) DeleteFileChunks(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM text_contexts WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("store: delete file chunks: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
