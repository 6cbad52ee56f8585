package service

import (
	"context"
	"strings"

	"github.com/tieubaoca/filing-rag-be/database"
	"github.com/tieubaoca/filing-rag-be/types"
	"go.uber.org/zap"
)

// Retriever runs metadata-filtered similarity searches and applies the
// similarity gate. It holds no state beyond its store handle, so
// concurrent queries are safe.
type Retriever struct {
	store  database.VectorStore
	logger *zap.Logger
}

func NewRetriever(store database.VectorStore, logger *zap.Logger) *Retriever {
	return &Retriever{store: store, logger: logger}
}

// Retrieve returns up to k chunks ordered by ascending distance. Blank
// queries short-circuit to an empty result unless allowBlankQuery is
// set, so a stray empty question never triggers a full-collection scan.
// Ticker and period filters combine conjunctively; when
// filters.MinSimilarity is set, results whose similarity falls below it
// are dropped without disturbing the order of the rest.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, filters types.QueryFilters, allowBlankQuery bool) ([]types.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" && !allowBlankQuery {
		return nil, nil
	}

	results, err := r.store.Query(ctx, query, k, filters)
	if err != nil {
		return nil, &types.RetrievalError{Op: "query", Cause: err}
	}

	if filters.MinSimilarity == nil {
		return results, nil
	}

	kept := results[:0]
	for _, sc := range results {
		if Similarity(sc.Distance) >= *filters.MinSimilarity {
			kept = append(kept, sc)
		}
	}
	r.logger.Debug("similarity gate",
		zap.Int("in", len(results)),
		zap.Int("kept", len(kept)),
		zap.Float64("min_similarity", *filters.MinSimilarity))
	return kept, nil
}

// Similarity converts a cosine distance in [0, 2] to a score in [0, 1],
// clamped at both ends.
func Similarity(distance float64) float64 {
	s := 1.0 - distance/2.0
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
