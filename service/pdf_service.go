package service

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/tieubaoca/filing-rag-be/types"
	"go.uber.org/zap"
)

// PDFService parses a PDF filing into a Document of paragraph and table
// blocks with page and line provenance. Text comes from the PDF content
// stream via ledongthuc/pdf; pages the library cannot read can fall
// back to the pdftotext utility.
type PDFService struct {
	fallbackPdftotext bool
	logger            *zap.Logger
}

func NewPDFService(fallbackPdftotext bool, logger *zap.Logger) *PDFService {
	return &PDFService{
		fallbackPdftotext: fallbackPdftotext,
		logger:            logger,
	}
}

// Parse reads the file at filePath into a Document. An unreadable file
// is a ParseError; a readable file with no extractable text yields a
// Document with zero blocks.
func (s *PDFService) Parse(filePath string, meta types.DocumentMetadata) (*types.Document, error) {
	f, reader, err := pdflib.Open(filePath)
	if err != nil {
		return nil, &types.ParseError{File: filePath, Cause: err}
	}
	defer f.Close()

	meta.LocalPath = filePath
	doc := &types.Document{Metadata: meta}

	totalPages := reader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows := extractPageRows(page)
		if len(rows) == 0 && s.fallbackPdftotext {
			text, err := pdftotextPage(filePath, pageNum)
			if err != nil {
				s.logger.Warn("failed to extract page text",
					zap.String("file", filePath),
					zap.Int("page", pageNum),
					zap.Error(err))
				continue
			}
			if b := newParagraphBlock(strings.Split(cleanText(text), "\n"), pageNum, 0); b != nil {
				doc.Blocks = append(doc.Blocks, *b)
			}
			continue
		}

		seq := 0
		if b := newParagraphBlock(rowTexts(rows), pageNum, seq); b != nil {
			doc.Blocks = append(doc.Blocks, *b)
			seq++
		}
		for _, tbl := range detectTables(rows) {
			doc.Blocks = append(doc.Blocks, newTableBlock(tbl, pageNum, seq))
			seq++
		}
	}

	return doc, nil
}

// textSpan is one positioned run of text on a row, as the PDF content
// stream delivers it (often a single glyph).
type textSpan struct {
	text     string
	x, w     float64
	fontSize float64
}

// pdfRow is one visual row of the page, already merged into cells.
type pdfRow struct {
	cells []string
}

func extractPageRows(page pdflib.Page) []pdfRow {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
	}
	out := make([]pdfRow, 0, len(rows))
	for _, row := range rows {
		spans := make([]textSpan, 0, len(row.Content))
		for _, t := range row.Content {
			if t.S == "" {
				continue
			}
			spans = append(spans, textSpan{text: t.S, x: t.X, w: t.W, fontSize: t.FontSize})
		}
		cells := mergeSpans(spans)
		if len(cells) == 0 {
			continue
		}
		out = append(out, pdfRow{cells: cells})
	}
	return out
}

// mergeSpans joins adjacent spans of a row into cell strings. A small
// horizontal gap separates words inside one cell; a wide gap marks a
// column boundary, which is what lets tables be reconstructed from a
// text-only content stream.
func mergeSpans(spans []textSpan) []string {
	var cells []string
	var cur strings.Builder
	var endX float64

	for i, sp := range spans {
		if i == 0 {
			cur.WriteString(cleanText(sp.text))
			endX = sp.x + sp.w
			continue
		}
		gap := sp.x - endX
		switch {
		case gap > cellGap(sp.fontSize):
			if cur.Len() > 0 {
				cells = append(cells, strings.TrimSpace(cur.String()))
			}
			cur.Reset()
			cur.WriteString(cleanText(sp.text))
		case gap > wordGap(sp.fontSize):
			cur.WriteString(" ")
			cur.WriteString(cleanText(sp.text))
		default:
			cur.WriteString(cleanText(sp.text))
		}
		if x := sp.x + sp.w; x > endX {
			endX = x
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		cells = append(cells, s)
	}

	// Drop empty leading cells produced by stray whitespace spans.
	out := cells[:0]
	for _, c := range cells {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func wordGap(fontSize float64) float64 {
	g := fontSize * 0.25
	if g < 1 {
		g = 1
	}
	return g
}

func cellGap(fontSize float64) float64 {
	g := fontSize * 2
	if g < 12 {
		g = 12
	}
	return g
}

func rowTexts(rows []pdfRow) []string {
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = strings.Join(r.cells, "  ")
	}
	return texts
}

// detectTables finds runs of at least two consecutive multi-cell rows
// and returns their cell grids in row-major order.
func detectTables(rows []pdfRow) [][][]string {
	var tables [][][]string
	var run [][]string

	flush := func() {
		if len(run) >= 2 {
			tables = append(tables, run)
		}
		run = nil
	}

	for _, r := range rows {
		if len(r.cells) >= 2 {
			run = append(run, r.cells)
		} else {
			flush()
		}
	}
	flush()
	return tables
}

// pdftotextPage extracts one page with the pdftotext utility.
func pdftotextPage(filePath string, pageNumber int) (string, error) {
	cmd := exec.Command("pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("got nothing at page %d", pageNumber)
	}
	return text, nil
}

var textCleaner = strings.NewReplacer(
	"\x00", "", // Null character
	"�", "", // Unicode replacement character
	"\x1b", "", // Escape character
	"\r", "",
	"\f", "\n",
)

func cleanText(text string) string {
	return textCleaner.Replace(text)
}
