package database

import (
	"context"

	"github.com/tieubaoca/filing-rag-be/types"
)

// VectorStore wraps the external embedding/similarity-search capability.
// Upsert with no chunks is a no-op; Query with an unmatched filter
// returns an empty result, never an error. Results come back ordered by
// ascending distance.
type VectorStore interface {
	Upsert(ctx context.Context, chunks []types.Chunk) error
	Query(ctx context.Context, text string, k int, filters types.QueryFilters) ([]types.ScoredChunk, error)
	GetByID(ctx context.Context, chunkID string) (*types.Chunk, error)
}
