package service

import "github.com/tieubaoca/filing-rag-be/types"

// BuildCitations projects retrieved chunks onto user-facing citation
// records. Pure function: missing optional fields simply stay empty.
func BuildCitations(chunks []types.Chunk) []types.Citation {
	citations := make([]types.Citation, 0, len(chunks))
	for _, ch := range chunks {
		m := ch.Metadata
		citations = append(citations, types.Citation{
			DocID:      m.DocID,
			Title:      m.Title,
			Ticker:     m.Ticker,
			FilingType: m.FilingType,
			Period:     m.Period,
			Section:    m.Section,
			Page:       m.PageStart,
			LineStart:  m.LineStart,
			LineEnd:    m.LineEnd,
			TableID:    m.TableID,
			SourceURL:  m.SourceURL,
		})
	}
	return citations
}
