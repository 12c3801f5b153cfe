package events

import "time"

// ReadStart is emitted before a query is read from the cache.
type ReadStart struct {
	OperationName string
	OperationType string
}

// ReadFinish is emitted after a query has been read from the cache.
type ReadFinish struct {
	OperationName string
	OperationType string
	// Miss is true when the cache could not serve the query.
	Miss     bool
	Partial  bool
	Errors   []error
	Duration time.Duration
}

// ConnectionResolved is emitted each time a paginated connection is
// assembled from cached pages.
type ConnectionResolved struct {
	ParentKey string
	FieldName string
	MergeMode string
	// Outcome is "complete", "partial" or "miss".
	Outcome string
	Nodes   int
	Err     error
}
