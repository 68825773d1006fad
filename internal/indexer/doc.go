// Package indexer coordinates one run at a time of scanning a project
// root, chunking changed files in parallel, embedding the results in
// batches, and writing them to the store. IndexingStatus is the only
// channel through which the job reports progress or failure; indexing
// never returns an error to its caller.
package indexer
