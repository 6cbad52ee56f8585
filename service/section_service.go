package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tieubaoca/filing-rag-be/types"
)

// Canonical labels for headings that matter as filter and citation
// metadata. Matched as substrings of a candidate heading line.
var knownHeadings = []struct {
	pattern string
	label   string
}{
	{"RISK FACTORS", "Risk Factors"},
	{"MANAGEMENT'S DISCUSSION AND ANALYSIS", "Management's Discussion and Analysis"},
	{"QUANTITATIVE AND QUALITATIVE DISCLOSURES", "Quantitative and Qualitative Disclosures"},
	{"CONTROLS AND PROCEDURES", "Controls and Procedures"},
	{"LEGAL PROCEEDINGS", "Legal Proceedings"},
	{"STATEMENTS OF OPERATIONS", "Income Statement"},
	{"INCOME STATEMENT", "Income Statement"},
	{"STATEMENTS OF INCOME", "Income Statement"},
	{"BALANCE SHEET", "Balance Sheet"},
	{"STATEMENTS OF CASH FLOW", "Cash Flow Statement"},
	{"CASH FLOW STATEMENT", "Cash Flow Statement"},
	{"STATEMENTS OF STOCKHOLDERS", "Statement of Stockholders' Equity"},
	{"NOTES TO", "Notes to Financial Statements"},
	{"EXHIBITS", "Exhibits"},
}

var itemHeadingRe = regexp.MustCompile(`(?i)^item\s+\d+[a-z]?\.?\s*`)

// TagSections assigns section labels to blocks in place: a block that
// looks like a heading starts a new section, and the label propagates
// to every following block until the next heading. Labels are derived
// from block text alone, so re-tagging is idempotent.
func TagSections(blocks []types.Block) {
	current := ""
	for i := range blocks {
		if label, ok := headingLabel(&blocks[i]); ok {
			current = label
		}
		blocks[i].Section = current
	}
}

// headingLabel reports whether the block is a section heading and, if
// so, its canonical label. Only short paragraph blocks qualify.
func headingLabel(b *types.Block) (string, bool) {
	if b.Type != types.BlockTypeParagraph || len(b.Lines) > 3 {
		return "", false
	}
	line := ""
	for _, l := range b.Lines {
		if t := strings.TrimSpace(l.Text); t != "" {
			line = t
			break
		}
	}
	if line == "" || len(line) > 80 {
		return "", false
	}

	upper := strings.ToUpper(line)
	for _, h := range knownHeadings {
		if strings.Contains(upper, h.pattern) {
			return h.label, true
		}
	}

	if m := itemHeadingRe.FindString(line); m != "" {
		rest := strings.TrimSpace(line[len(m):])
		if rest == "" {
			return titleCase(line), true
		}
		return titleCase(rest), true
	}

	// All-caps short lines read as headings in filings.
	if isAllCapsHeading(line) {
		return titleCase(line), true
	}
	return "", false
}

func isAllCapsHeading(line string) bool {
	if len(strings.Fields(line)) > 8 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

var titleSmallWords = map[string]bool{
	"of": true, "to": true, "and": true, "the": true, "in": true,
	"for": true, "on": true, "a": true, "an": true,
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if i > 0 && titleSmallWords[w] {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
