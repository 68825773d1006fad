// Package rag assembles a detector, a crawler factory, an embedding
// client, a vector store, an indexer, and a retriever into the single
// Service an outer HTTP layer would call. Service is the whole system's
// entry point; everything else in this module is a collaborator it wires
// together.
package rag
