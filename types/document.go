package types

// BlockType distinguishes paragraph and table blocks.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
)

// Document is one parsed source filing. It is created once by a parser
// and never mutated afterwards, except for section labels assigned by
// the section tagger.
type Document struct {
	Metadata DocumentMetadata
	Blocks   []Block
}

// DocumentMetadata identifies the filing a Document was parsed from.
type DocumentMetadata struct {
	DocID      string // caller-assigned, unique across the index
	Ticker     string // stock symbol, e.g. AMZN
	FilingType string // e.g. pdf, html, 10-Q
	Period     string // fiscal quarter, Q#-YYYY
	SourceURL  string
	Title      string
	LocalPath  string
}

// Block is a contiguous unit of content on one page. Its lines joined
// with "\n" reconstruct Text exactly; that is what keeps citations
// line-accurate.
type Block struct {
	BlockID    string // unique within the Document, e.g. p_3_0 or t_3_1
	Type       BlockType
	PageNumber int // 1-based
	Text       string
	Lines      []Line
	Section    string      // set by the section tagger, empty until then
	Cells      []TableCell // populated only for table blocks
}

// Line is one line of text within a Block.
type Line struct {
	LineNumber int // 1-based, block-local, contiguous
	Text       string
}

// TableCell is one cell of a table block. (Row, Col) is unique within
// the block. Irregular rows are tolerated: missing cells are absent,
// not padded.
type TableCell struct {
	Row  int // 0-based
	Col  int // 0-based
	Text string
}
