// Package types provides the shared domain types for repocontext-rag.
//
// It defines the Chunk (the unit of retrieval), IndexingStatus (the
// singleton progress record published by the indexer), and SearchResult
// (a chunk paired with its similarity score) used across the detector,
// chunkers, crawler, embedder, store, indexer, and retriever packages.
package types
