package render

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hanpama/wordtable/internal/document"
)

// Markdown renders t as a pipe table. The first row becomes the header.
// Pipe tables cannot merge cells, so a merged cell's text appears at its
// origin and the positions it covers are left empty.
func Markdown(t *document.Table) string {
	grid := Matrix(t)
	if len(grid) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(toRow(grid[0]))
	for _, r := range grid[1:] {
		tw.AppendRow(toRow(r))
	}
	return tw.RenderMarkdown() + "\n"
}

// Matrix expands t onto its Rows x MaxColumns grid, with each cell's text
// at its anchor position.
func Matrix(t *document.Table) [][]string {
	if len(t.Rows) == 0 || t.MaxColumns == 0 {
		return nil
	}
	grid := make([][]string, len(t.Rows))
	for i := range grid {
		grid[i] = make([]string, t.MaxColumns)
	}
	placed, _ := document.Place(t)
	for _, p := range placed {
		if p.Col < t.MaxColumns {
			grid[p.Row][p.Col] = strings.TrimSpace(p.Cell.Text)
		}
	}
	return grid
}

func toRow(cells []string) table.Row {
	r := make(table.Row, len(cells))
	for i, c := range cells {
		r[i] = c
	}
	return r
}
