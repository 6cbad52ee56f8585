package service

import (
	"fmt"
	"strings"

	"github.com/tieubaoca/filing-rag-be/types"
)

// Block IDs carry page and per-page sequence so re-parsing an unchanged
// file reproduces them exactly: {prefix}_{page}_{seq}, where seq counts
// blocks already emitted on that page.
func paragraphBlockID(page, seq int) string {
	return fmt.Sprintf("p_%d_%d", page, seq)
}

func tableBlockID(page, seq int) string {
	return fmt.Sprintf("t_%d_%d", page, seq)
}

// newParagraphBlock builds a paragraph block from raw lines, trailing
// whitespace stripped, numbered from 1. Returns nil when there is no
// text at all, so empty pages yield no block.
func newParagraphBlock(rawLines []string, page, seq int) *types.Block {
	lines := make([]types.Line, 0, len(rawLines))
	for i, raw := range rawLines {
		lines = append(lines, types.Line{
			LineNumber: i + 1,
			Text:       strings.TrimRight(raw, " \t"),
		})
	}
	text := joinLines(lines)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &types.Block{
		BlockID:    paragraphBlockID(page, seq),
		Type:       types.BlockTypeParagraph,
		PageNumber: page,
		Text:       text,
		Lines:      lines,
	}
}

// newTableBlock builds a table block from cell rows. Each row becomes
// one line, cells joined with " | "; cells enumerate every (row, col)
// with trimmed text. Irregular row lengths are tolerated.
func newTableBlock(cellRows [][]string, page, seq int) types.Block {
	var cells []types.TableCell
	lines := make([]types.Line, 0, len(cellRows))
	for r, row := range cellRows {
		trimmed := make([]string, 0, len(row))
		for c, cell := range row {
			cellText := strings.TrimSpace(cell)
			cells = append(cells, types.TableCell{Row: r, Col: c, Text: cellText})
			trimmed = append(trimmed, cellText)
		}
		lines = append(lines, types.Line{
			LineNumber: r + 1,
			Text:       strings.Join(trimmed, " | "),
		})
	}
	return types.Block{
		BlockID:    tableBlockID(page, seq),
		Type:       types.BlockTypeTable,
		PageNumber: page,
		Text:       joinLines(lines),
		Lines:      lines,
		Cells:      cells,
	}
}

func joinLines(lines []types.Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}
