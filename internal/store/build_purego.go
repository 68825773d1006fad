//go:build purego || !sqlite_vec

package store

// This file is compiled without CGO, or without the sqlite_vec tag. It
// uses the pure-Go SQLite driver and computes cosine similarity in Go
// against every stored embedding.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver name to open.
	DriverName = "sqlite"

	// VectorExtensionAvailable indicates sqlite-vec is loaded, enabling
	// in-database cosine distance instead of a Go-side scan.
	VectorExtensionAvailable = false
)
