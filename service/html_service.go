package service

import (
	"os"
	"strings"

	"github.com/tieubaoca/filing-rag-be/types"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// HTMLService parses an HTML filing into the same Document shape the
// PDF parser produces: one paragraph block per structural text element,
// one table block per <table>, in document order. Page numbers start at
// 1 and advance on <hr> elements, which is how EDGAR filings paginate;
// without page breaks everything is page 1.
type HTMLService struct {
	logger *zap.Logger
}

func NewHTMLService(logger *zap.Logger) *HTMLService {
	return &HTMLService{logger: logger}
}

func (s *HTMLService) Parse(filePath string, meta types.DocumentMetadata) (*types.Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, &types.ParseError{File: filePath, Cause: err}
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, &types.ParseError{File: filePath, Cause: err}
	}

	meta.LocalPath = filePath
	if meta.Title == "" {
		meta.Title = findTitle(root)
	}
	doc := &types.Document{Metadata: meta}

	w := &htmlWalker{doc: doc, page: 1}
	if body := findBody(root); body != nil {
		w.walk(body)
	} else {
		w.walk(root)
	}
	return doc, nil
}

type htmlWalker struct {
	doc  *types.Document
	page int
	seq  int // blocks emitted on the current page
}

func (w *htmlWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "nav", "footer", "header":
			return
		case "hr":
			w.page++
			w.seq = 0
			return
		case "table":
			if rows := tableRows(n); len(rows) > 0 {
				w.doc.Blocks = append(w.doc.Blocks, newTableBlock(rows, w.page, w.seq))
				w.seq++
			}
			return
		case "p", "li", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
			if t := textContent(n); t != "" {
				if b := newParagraphBlock(strings.Split(t, "\n"), w.page, w.seq); b != nil {
					w.doc.Blocks = append(w.doc.Blocks, *b)
					w.seq++
				}
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// tableRows collects the cell text of every <tr>, skipping rows with no
// cells at all. Irregular row lengths pass through untouched.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
