// Package store holds chunks and their embeddings and answers cosine
// similarity searches over them.
//
// MemoryStore is the reference implementation: an in-memory map with a
// single-writer, many-reader access discipline. SQLiteStore is an optional
// durable backing store using a single text_contexts table; it uses the
// sqlite-vec extension for in-database cosine search when built with CGO
// and the sqlite_vec tag, and falls back to computing similarity in Go
// against the pure-Go SQLite driver otherwise.
package store
