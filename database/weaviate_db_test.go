package database

import (
	"testing"

	"github.com/tieubaoca/filing-rag-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
)

func TestObjectIDDeterministic(t *testing.T) {
	a := ObjectID("AMZN_Q3-2025_10q_p_5_0_0")
	b := ObjectID("AMZN_Q3-2025_10q_p_5_0_0")
	if a != b {
		t.Errorf("same chunk id produced %s and %s", a, b)
	}
	if c := ObjectID("AMZN_Q3-2025_10q_p_5_0_1"); c == a {
		t.Error("distinct chunk ids collided")
	}
	if err := a.Validate(nil); err != nil {
		t.Errorf("not a valid uuid: %v", err)
	}
}

func TestBuildChunkFilter(t *testing.T) {
	if f := BuildChunkFilter(types.QueryFilters{}); f != nil {
		t.Errorf("empty filters produced a where clause: %v", f)
	}

	tickerOnly := BuildChunkFilter(types.QueryFilters{Tickers: []string{"AMZN", "MSFT"}})
	if tickerOnly == nil {
		t.Fatal("ticker filter is nil")
	}
	wantTicker := filters.Where().
		WithPath([]string{"ticker"}).
		WithOperator(filters.ContainsAny).
		WithValueText("amzn", "msft")
	if got, want := tickerOnly.String(), wantTicker.String(); got != want {
		t.Errorf("ticker clause = %s, want %s", got, want)
	}

	periodOnly := BuildChunkFilter(types.QueryFilters{Period: "Q3-2025"})
	if periodOnly == nil {
		t.Fatal("period filter is nil")
	}
	wantPeriod := filters.Where().
		WithPath([]string{"period"}).
		WithOperator(filters.Equal).
		WithValueText("Q3-2025")
	if got, want := periodOnly.String(), wantPeriod.String(); got != want {
		t.Errorf("period clause = %s, want %s", got, want)
	}

	both := BuildChunkFilter(types.QueryFilters{Tickers: []string{"AMZN"}, Period: "Q3-2025"})
	if both == nil {
		t.Fatal("combined filter is nil")
	}
	wantBoth := filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{wantTicker, wantPeriod})
	if got, want := both.String(), wantBoth.String(); got != want {
		t.Errorf("combined clause = %s, want %s", got, want)
	}
}

func TestChunkPropertiesRoundTrip(t *testing.T) {
	chunk := types.Chunk{
		ChunkID: "AMZN_Q3-2025_10q_t_6_1_0",
		Text:    "Segment | Q3 2025\nNorth America | 87,887",
		Metadata: types.ChunkMetadata{
			DocID:      "AMZN_Q3-2025_10q",
			Ticker:     "amzn",
			FilingType: "10-Q",
			Period:     "Q3-2025",
			Title:      "Amazon Q3 2025 Form 10-Q",
			Section:    "Income Statement",
			PageStart:  6,
			LineStart:  1,
			LineEnd:    2,
			TableID:    "t_6_1",
			SourceURL:  "https://www.sec.gov/example",
		},
	}

	props := chunkProperties(chunk)
	got := propertiesToChunk(props)
	if got.ChunkID != chunk.ChunkID || got.Text != chunk.Text {
		t.Errorf("chunk fields: %+v", got)
	}
	if got.Metadata != chunk.Metadata {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, chunk.Metadata)
	}
}

func TestPropertiesToChunkGraphQLNumbers(t *testing.T) {
	// GraphQL responses deliver ints as float64.
	chunk := propertiesToChunk(map[string]interface{}{
		"chunkId":   "AMZN_Q3-2025_10q_p_5_0_0",
		"content":   "Net sales increased 11%",
		"pageStart": float64(5),
		"lineStart": float64(10),
		"lineEnd":   float64(14),
	})
	if chunk.Metadata.PageStart != 5 || chunk.Metadata.LineStart != 10 || chunk.Metadata.LineEnd != 14 {
		t.Errorf("metadata = %+v", chunk.Metadata)
	}
	if chunk.Metadata.Ticker != "" {
		t.Errorf("absent property = %q", chunk.Metadata.Ticker)
	}
}
