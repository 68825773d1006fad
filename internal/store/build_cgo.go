//go:build sqlite_vec

package store

// This file is compiled when building with CGO and the sqlite_vec tag. It
// enables the sqlite-vec extension for SQL-level cosine distance search.
//
// Build command:
//   CGO_ENABLED=1 go build -tags sqlite_vec ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver name to open.
	DriverName = "sqlite3"

	// VectorExtensionAvailable indicates sqlite-vec is loaded, enabling
	// in-database cosine distance instead of a Go-side scan.
	VectorExtensionAvailable = true
)
