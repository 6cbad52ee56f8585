package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tieubaoca/filing-rag-be/database"
	"github.com/tieubaoca/filing-rag-be/types"
	"go.uber.org/zap"
)

// IndexService turns documents into chunks and writes them to the
// vector store. Chunk IDs are deterministic ({doc_id}_{block_id}_{slice}),
// so rebuilding from identical sources upserts instead of duplicating.
type IndexService struct {
	store        database.VectorStore
	maxChunkSize int // embedding size budget in bytes
	logger       *zap.Logger
}

func NewIndexService(store database.VectorStore, maxChunkSize int, logger *zap.Logger) *IndexService {
	if maxChunkSize <= 0 {
		maxChunkSize = 1024
	}
	return &IndexService{
		store:        store,
		maxChunkSize: maxChunkSize,
		logger:       logger,
	}
}

// IndexDocuments chunks and upserts every document. The default is
// fail-fast: the first failing document aborts the batch with an
// IndexingError naming it. With bestEffort set, remaining documents are
// still attempted and the first error is reported at the end.
func (s *IndexService) IndexDocuments(ctx context.Context, docs []*types.Document, bestEffort bool) error {
	var firstErr error
	for _, doc := range docs {
		chunks := s.BuildChunks(doc)
		if err := s.store.Upsert(ctx, chunks); err != nil {
			indexErr := &types.IndexingError{DocID: doc.Metadata.DocID, Cause: err}
			if !bestEffort {
				return indexErr
			}
			if firstErr == nil {
				firstErr = indexErr
			}
			s.logger.Warn("failed to index document",
				zap.String("doc_id", doc.Metadata.DocID),
				zap.Error(err))
			continue
		}
		s.logger.Info("indexed document",
			zap.String("doc_id", doc.Metadata.DocID),
			zap.Int("chunks", len(chunks)))
	}
	return firstErr
}

// BuildChunks converts every block of the document into one or more
// chunks, each carrying full citation metadata.
func (s *IndexService) BuildChunks(doc *types.Document) []types.Chunk {
	var chunks []types.Chunk
	for _, block := range doc.Blocks {
		chunks = append(chunks, s.chunkBlock(doc.Metadata, block)...)
	}
	return chunks
}

// chunkBlock emits one chunk when the block fits the size budget and
// otherwise splits at line boundaries. A table row is never split: the
// minimum splittable unit is one line, which for tables is one row.
func (s *IndexService) chunkBlock(meta types.DocumentMetadata, block types.Block) []types.Chunk {
	var slices [][]types.Line
	if len(block.Text) <= s.maxChunkSize {
		slices = [][]types.Line{block.Lines}
	} else {
		slices = splitLines(block.Lines, s.maxChunkSize)
	}

	chunks := make([]types.Chunk, 0, len(slices))
	for i, slice := range slices {
		if len(slice) == 0 {
			continue
		}
		md := types.ChunkMetadata{
			DocID:      meta.DocID,
			Ticker:     strings.ToLower(meta.Ticker),
			FilingType: meta.FilingType,
			Period:     meta.Period,
			Title:      meta.Title,
			Section:    block.Section,
			SourceURL:  meta.SourceURL,
			PageStart:  block.PageNumber,
			LineStart:  slice[0].LineNumber,
			LineEnd:    slice[len(slice)-1].LineNumber,
		}
		if block.Type == types.BlockTypeTable {
			md.TableID = block.BlockID
		}
		chunks = append(chunks, types.Chunk{
			ChunkID:  fmt.Sprintf("%s_%s_%d", meta.DocID, block.BlockID, i),
			Text:     joinLines(slice),
			Metadata: md,
		})
	}
	return chunks
}

// splitLines greedily packs consecutive lines under the byte budget.
// A single line over the budget becomes its own slice; it cannot be
// split without losing line-accurate provenance.
func splitLines(lines []types.Line, budget int) [][]types.Line {
	var slices [][]types.Line
	var cur []types.Line
	size := 0

	for _, line := range lines {
		lineSize := len(line.Text)
		if len(cur) > 0 && size+1+lineSize > budget {
			slices = append(slices, cur)
			cur = nil
			size = 0
		}
		if len(cur) > 0 {
			size++ // newline joining the lines
		}
		cur = append(cur, line)
		size += lineSize
	}
	if len(cur) > 0 {
		slices = append(slices, cur)
	}
	return slices
}
