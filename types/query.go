package types

// QueryFilters narrows a similarity search. Tickers and Period combine
// conjunctively; either may be empty. MinSimilarity is applied by the
// retriever after converting distances to similarity scores.
type QueryFilters struct {
	Tickers       []string
	Period        string
	MinSimilarity *float64
}

// ParsedQuery is the result of extracting structured filters from a
// free-text question. When NeedsClarification is set, Message holds a
// prompt to show the user instead of running a retrieval.
type ParsedQuery struct {
	Tickers            []string `json:"tickers,omitempty"`
	Period             string   `json:"period,omitempty"`
	NeedsClarification bool     `json:"needs_clarification"`
	Message            string   `json:"clarification_message,omitempty"`
}
