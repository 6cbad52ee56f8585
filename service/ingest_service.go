package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tieubaoca/filing-rag-be/types"
	"github.com/tieubaoca/filing-rag-be/utils"
	"go.uber.org/zap"
)

// IngestService drives batch ingestion: it discovers raw filings under
// <rawDir>/<ticker>/, parses them, tags sections and hands the
// documents to the index service. Each build is a full batch; there is
// no incremental re-indexing.
type IngestService struct {
	rawDir     string
	pdfSvc     *PDFService
	htmlSvc    *HTMLService
	index      *IndexService
	bestEffort bool
	logger     *zap.Logger
}

func NewIngestService(rawDir string, pdfService *PDFService, htmlService *HTMLService, index *IndexService, bestEffort bool, logger *zap.Logger) *IngestService {
	return &IngestService{
		rawDir:     rawDir,
		pdfSvc:     pdfService,
		htmlSvc:    htmlService,
		index:      index,
		bestEffort: bestEffort,
		logger:     logger,
	}
}

// BuildIndex parses and indexes every filing for the given tickers and
// period, returning the number of documents indexed. Fail-fast by
// default: the first unrecoverable file aborts with an IngestionError
// naming it. In best-effort mode failures are logged and the batch
// continues.
func (s *IngestService) BuildIndex(ctx context.Context, tickers []string, period string) (int, error) {
	var docs []*types.Document
	for _, ticker := range tickers {
		loaded, err := s.loadTicker(ticker, period)
		if err != nil {
			return 0, err
		}
		docs = append(docs, loaded...)
	}

	if len(docs) == 0 {
		s.logger.Warn("no documents found",
			zap.Strings("tickers", tickers),
			zap.String("period", period))
		return 0, nil
	}

	if err := s.index.IndexDocuments(ctx, docs, s.bestEffort); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *IngestService) loadTicker(ticker, period string) ([]*types.Document, error) {
	dir := filepath.Join(s.rawDir, strings.ToLower(ticker))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		s.logger.Warn("no filing directory for ticker",
			zap.String("ticker", ticker),
			zap.String("dir", dir))
		return nil, nil
	}

	files, err := utils.ListFilingFiles(dir)
	if err != nil {
		return nil, &types.IngestionError{Ticker: ticker, File: dir, Cause: err}
	}

	var docs []*types.Document
	for _, path := range files {
		doc, err := s.parseFile(path, ticker, period)
		if err != nil {
			if !s.bestEffort {
				return nil, &types.IngestionError{Ticker: ticker, File: path, Cause: err}
			}
			s.logger.Warn("failed to parse filing",
				zap.String("ticker", ticker),
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		TagSections(doc.Blocks)
		s.logger.Info("parsed filing",
			zap.String("doc_id", doc.Metadata.DocID),
			zap.Int("blocks", len(doc.Blocks)))
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *IngestService) parseFile(path, ticker, period string) (*types.Document, error) {
	stem := utils.FileStem(path)
	meta := types.DocumentMetadata{
		DocID:  fmt.Sprintf("%s_%s_%s", strings.ToUpper(ticker), period, stem),
		Ticker: strings.ToUpper(ticker),
		Period: period,
		Title:  stem,
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		meta.FilingType = "pdf"
		return s.pdfSvc.Parse(path, meta)
	case ".html", ".htm":
		meta.FilingType = "html"
		return s.htmlSvc.Parse(path, meta)
	}
	return nil, &types.ParseError{File: path, Cause: fmt.Errorf("unsupported file type")}
}
