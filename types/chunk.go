package types

// Chunk is a retrieval unit derived from one or more lines of a single
// block. Once written to the vector store it is self-contained: the
// metadata alone is enough to build a Citation without re-reading the
// source Document.
type Chunk struct {
	ChunkID  string // {doc_id}_{block_id}_{slice}, deterministic across re-indexing
	Text     string
	Metadata ChunkMetadata
}

// ChunkMetadata is the flat metadata attached to every chunk. The
// vector store transports it as an untyped property map; everything
// inside this module works with the typed form and converts at the
// store boundary.
type ChunkMetadata struct {
	DocID      string `json:"doc_id"`
	Ticker     string `json:"ticker"` // stored lowercase, filters match case-insensitively
	FilingType string `json:"filing_type,omitempty"`
	Period     string `json:"period,omitempty"`
	Title      string `json:"title,omitempty"`
	Section    string `json:"section,omitempty"`
	PageStart  int    `json:"page_start,omitempty"`
	LineStart  int    `json:"line_start,omitempty"`
	LineEnd    int    `json:"line_end,omitempty"`
	TableID    string `json:"table_id,omitempty"` // block id when the chunk came from a table
	SourceURL  string `json:"source_url,omitempty"`
}

// ScoredChunk pairs a retrieved chunk with its raw distance from the
// vector store, ascending distance meaning most similar first.
type ScoredChunk struct {
	Chunk    Chunk
	Distance float64
}

// Citation is the response-facing projection of a chunk's metadata.
// Derived, never persisted.
type Citation struct {
	DocID      string `json:"doc_id"`
	Title      string `json:"doc_title,omitempty"`
	Ticker     string `json:"ticker,omitempty"`
	FilingType string `json:"filing_type,omitempty"`
	Period     string `json:"period,omitempty"`
	Section    string `json:"section,omitempty"`
	Page       int    `json:"page,omitempty"`
	LineStart  int    `json:"line_start,omitempty"`
	LineEnd    int    `json:"line_end,omitempty"`
	TableID    string `json:"table_id,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`
}
