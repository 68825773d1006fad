package types

// IndexingStatus is the observable, process-wide progress record for the
// indexer. It is written only by the indexer's owning goroutine and read
// concurrently by status callers; readers must treat a snapshot as
// best-effort (see indexer.Indexer for the synchronization discipline that
// keeps individual fields from tearing).
type IndexingStatus struct {
	IsIndexing     bool
	Message        string
	TotalFiles     int
	ProcessedFiles int
	CurrentFile    string
}

// Snapshot returns a copy of the status, safe to hand to a caller outside
// the owning goroutine.
func (s IndexingStatus) Snapshot() IndexingStatus {
	return s
}
