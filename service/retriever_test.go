package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tieubaoca/filing-rag-be/types"
	"go.uber.org/zap"
)

// fakeStore implements database.VectorStore for tests. Shared with the
// index service tests.
type fakeStore struct {
	upserts      [][]types.Chunk
	upsertErr    error
	queryCalls   int
	queryResults []types.ScoredChunk
	queryErr     error
	lastFilters  types.QueryFilters
}

func (f *fakeStore) Upsert(ctx context.Context, chunks []types.Chunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, chunks)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, text string, k int, filters types.QueryFilters) ([]types.ScoredChunk, error) {
	f.queryCalls++
	f.lastFilters = filters
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResults, nil
}

func (f *fakeStore) GetByID(ctx context.Context, chunkID string) (*types.Chunk, error) {
	return nil, nil
}

func scored(id string, distance float64) types.ScoredChunk {
	return types.ScoredChunk{
		Chunk:    types.Chunk{ChunkID: id, Metadata: types.ChunkMetadata{DocID: id}},
		Distance: distance,
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestRetrieveBlankQueryShortCircuits(t *testing.T) {
	store := &fakeStore{queryResults: []types.ScoredChunk{scored("c1", 0.1)}}
	r := NewRetriever(store, zap.NewNop())

	for _, query := range []string{"", "   ", "\t\n"} {
		results, err := r.Retrieve(context.Background(), query, 10, types.QueryFilters{}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("query %q: got %d results, want 0", query, len(results))
		}
	}
	if store.queryCalls != 0 {
		t.Errorf("store was queried %d times, want 0", store.queryCalls)
	}
}

func TestRetrieveBlankQueryAllowed(t *testing.T) {
	store := &fakeStore{queryResults: []types.ScoredChunk{scored("c1", 0.1)}}
	r := NewRetriever(store, zap.NewNop())

	results, err := r.Retrieve(context.Background(), "", 10, types.QueryFilters{}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if store.queryCalls != 1 {
		t.Errorf("store queried %d times, want 1", store.queryCalls)
	}
}

func TestRetrievePassesFiltersThrough(t *testing.T) {
	store := &fakeStore{}
	r := NewRetriever(store, zap.NewNop())

	filters := types.QueryFilters{Tickers: []string{"AMZN"}, Period: "Q3-2025"}
	if _, err := r.Retrieve(context.Background(), "revenue", 5, filters, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.lastFilters.Tickers) != 1 || store.lastFilters.Tickers[0] != "AMZN" {
		t.Errorf("tickers = %v", store.lastFilters.Tickers)
	}
	if store.lastFilters.Period != "Q3-2025" {
		t.Errorf("period = %q", store.lastFilters.Period)
	}
}

func TestRetrieveSimilarityGate(t *testing.T) {
	store := &fakeStore{queryResults: []types.ScoredChunk{
		scored("best", 0.0),  // similarity 1.0
		scored("good", 0.6),  // similarity 0.7
		scored("weak", 1.4),  // similarity 0.3
		scored("worst", 2.0), // similarity 0.0
	}}
	r := NewRetriever(store, zap.NewNop())

	tests := []struct {
		name    string
		minSim  *float64
		wantIDs []string
	}{
		{"no gate", nil, []string{"best", "good", "weak", "worst"}},
		{"zero threshold keeps all", floatPtr(0.0), []string{"best", "good", "weak", "worst"}},
		{"mid threshold", floatPtr(0.5), []string{"best", "good"}},
		{"max threshold", floatPtr(1.0), []string{"best"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := types.QueryFilters{MinSimilarity: tt.minSim}
			results, err := r.Retrieve(context.Background(), "revenue", 10, filters, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != len(tt.wantIDs) {
				t.Fatalf("got %d results, want %d", len(results), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if results[i].Chunk.ChunkID != want {
					t.Errorf("result[%d] = %s, want %s", i, results[i].Chunk.ChunkID, want)
				}
			}
		})
	}
}

func TestRetrieveStoreErrorWrapped(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("connection refused")}
	r := NewRetriever(store, zap.NewNop())

	_, err := r.Retrieve(context.Background(), "revenue", 5, types.QueryFilters{}, false)
	if err == nil {
		t.Fatal("expected error")
	}
	var retrievalErr *types.RetrievalError
	if !errors.As(err, &retrievalErr) {
		t.Fatalf("error type = %T, want *types.RetrievalError", err)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0.0, 1.0},
		{1.0, 0.5},
		{2.0, 0.0},
		{3.0, 0.0},  // clamped
		{-0.5, 1.0}, // clamped
	}
	for _, tt := range tests {
		if got := Similarity(tt.distance); got != tt.want {
			t.Errorf("Similarity(%v) = %v, want %v", tt.distance, got, tt.want)
		}
	}
}
