package types

import "errors"

// Domain errors shared across packages.
var (
	ErrEmptyQuestion   = errors.New("question cannot be empty")
	ErrRootNotFound    = errors.New("root path does not exist")
	ErrAlreadyIndexing = errors.New("indexing already in progress")
)
