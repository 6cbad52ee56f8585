package types

import "fmt"

// ParseError reports an unreadable or empty source file. Fatal for that
// file, not for the batch.
type ParseError struct {
	File  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// IndexingError reports a failed embed/store call while indexing the
// chunks of one document.
type IndexingError struct {
	DocID string
	Cause error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("index document %s: %v", e.DocID, e.Cause)
}

func (e *IndexingError) Unwrap() error { return e.Cause }

// IngestionError identifies the first unrecoverable file of a BuildIndex
// run with enough context to retry.
type IngestionError struct {
	Ticker string
	File   string
	Cause  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s (%s): %v", e.File, e.Ticker, e.Cause)
}

func (e *IngestionError) Unwrap() error { return e.Cause }

// RetrievalError reports a real store failure during a query, as opposed
// to an intentionally empty result.
type RetrievalError struct {
	Op    string
	Cause error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval %s: %v", e.Op, e.Cause)
}

func (e *RetrievalError) Unwrap() error { return e.Cause }
