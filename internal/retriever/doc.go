// Package retriever answers natural-language questions about an indexed
// codebase: embed the question, search the store, assemble a system
// prompt from the results, and ask the chat model. When the index is
// empty, the embedder is unhealthy, or the question embeds to the
// zero-vector fallback, it falls back to one of three degraded-mode
// prompts built from the file list alone.
package retriever
