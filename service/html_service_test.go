package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tieubaoca/filing-rag-be/types"
	"go.uber.org/zap"
)

const sampleFiling = `<!DOCTYPE html>
<html>
<head>
  <title>AMZN Q3 2025 Form 10-Q</title>
  <style>p { margin: 0; }</style>
  <script>console.log("tracking");</script>
</head>
<body>
  <header><p>EDGAR viewer chrome</p></header>
  <h1>Quarterly Report</h1>
  <p>Net sales increased 11% to
     $143.1 billion in the third quarter.</p>
  <table>
    <tr><th>Segment</th><th>Q3 2025</th></tr>
    <tr><td>North America</td><td>87,887</td></tr>
  </table>
  <hr>
  <p>Operating income increased to $11.2 billion.</p>
</body>
</html>`

func writeFiling(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func parseSample(t *testing.T) *types.Document {
	t.Helper()
	svc := NewHTMLService(zap.NewNop())
	doc, err := svc.Parse(writeFiling(t, "10q.html", sampleFiling), types.DocumentMetadata{
		DocID:  "AMZN_Q3-2025_10q",
		Ticker: "AMZN",
		Period: "Q3-2025",
	})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestHTMLParseBlocks(t *testing.T) {
	doc := parseSample(t)

	// h1, p, table on page 1; one p on page 2. Header chrome and
	// script/style content never appear.
	if len(doc.Blocks) != 4 {
		t.Fatalf("got %d blocks: %+v", len(doc.Blocks), doc.Blocks)
	}

	heading := doc.Blocks[0]
	if heading.Type != types.BlockTypeParagraph || heading.Text != "Quarterly Report" {
		t.Errorf("first block = %q (%s)", heading.Text, heading.Type)
	}
	if heading.BlockID != "p_1_0" {
		t.Errorf("first block id = %s", heading.BlockID)
	}

	para := doc.Blocks[1]
	if !strings.Contains(para.Text, "Net sales increased 11% to $143.1 billion") {
		t.Errorf("paragraph text not normalized: %q", para.Text)
	}
	if para.PageNumber != 1 {
		t.Errorf("paragraph page = %d", para.PageNumber)
	}
}

func TestHTMLParseTable(t *testing.T) {
	doc := parseSample(t)

	tbl := doc.Blocks[2]
	if tbl.Type != types.BlockTypeTable {
		t.Fatalf("block type = %s", tbl.Type)
	}
	if tbl.BlockID != "t_1_2" {
		t.Errorf("table id = %s", tbl.BlockID)
	}
	wantLines := []string{"Segment | Q3 2025", "North America | 87,887"}
	if len(tbl.Lines) != 2 {
		t.Fatalf("table lines = %+v", tbl.Lines)
	}
	for i, want := range wantLines {
		if tbl.Lines[i].Text != want {
			t.Errorf("line %d = %q, want %q", i, tbl.Lines[i].Text, want)
		}
	}
	if len(tbl.Cells) != 4 {
		t.Fatalf("got %d cells", len(tbl.Cells))
	}
	if c := tbl.Cells[2]; c.Row != 1 || c.Col != 0 || c.Text != "North America" {
		t.Errorf("cell = %+v", c)
	}
}

func TestHTMLParsePageBreaks(t *testing.T) {
	doc := parseSample(t)

	last := doc.Blocks[3]
	if last.PageNumber != 2 {
		t.Errorf("page after <hr> = %d, want 2", last.PageNumber)
	}
	// Sequence restarts per page.
	if last.BlockID != "p_2_0" {
		t.Errorf("block id = %s", last.BlockID)
	}
}

func TestHTMLParseLineInvariant(t *testing.T) {
	doc := parseSample(t)
	for _, b := range doc.Blocks {
		var texts []string
		for i, line := range b.Lines {
			if line.LineNumber != i+1 {
				t.Errorf("block %s line %d numbered %d", b.BlockID, i, line.LineNumber)
			}
			texts = append(texts, line.Text)
		}
		if joined := strings.Join(texts, "\n"); joined != b.Text {
			t.Errorf("block %s: joined lines %q != text %q", b.BlockID, joined, b.Text)
		}
	}
}

func TestHTMLParseTitleFromHead(t *testing.T) {
	doc := parseSample(t)
	if doc.Metadata.Title != "AMZN Q3 2025 Form 10-Q" {
		t.Errorf("title = %q", doc.Metadata.Title)
	}

	// A caller-supplied title wins.
	svc := NewHTMLService(zap.NewNop())
	doc2, err := svc.Parse(writeFiling(t, "10q.html", sampleFiling), types.DocumentMetadata{Title: "Amazon 10-Q"})
	if err != nil {
		t.Fatal(err)
	}
	if doc2.Metadata.Title != "Amazon 10-Q" {
		t.Errorf("title = %q", doc2.Metadata.Title)
	}
}

func TestHTMLParseMissingFile(t *testing.T) {
	svc := NewHTMLService(zap.NewNop())
	_, err := svc.Parse(filepath.Join(t.TempDir(), "absent.html"), types.DocumentMetadata{})
	var perr *types.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}
