package merge

import (
	"strings"

	"github.com/hanpama/wordtable/internal/document"
)

// HeuristicSource reconstructs merges for tables that carry no merge
// metadata, using only the per-row cell count and cell emptiness.
//
// The result is an approximation: column spans are spread evenly over short
// rows and row spans are inferred from empty cells under a non-empty one.
type HeuristicSource struct {
	Tables []document.PlainTable
}

// NewHeuristicSource returns a source over the given text matrices.
func NewHeuristicSource(tables []document.PlainTable) *HeuristicSource {
	return &HeuristicSource{Tables: tables}
}

func (*HeuristicSource) tableSource() {}

// ExtractTables resolves every text matrix.
func (s *HeuristicSource) ExtractTables() []*document.Table {
	tables := make([]*document.Table, 0, len(s.Tables))
	for _, raw := range s.Tables {
		tables = append(tables, resolveHeuristic(raw))
	}
	return dedupe(tables)
}

func resolveHeuristic(raw document.PlainTable) *document.Table {
	maxColumns := 0
	for _, row := range raw.Cells {
		maxColumns = max(maxColumns, len(row))
	}

	t := &document.Table{
		Offset:     raw.Offset,
		MaxColumns: maxColumns,
		Rows:       make([]document.Row, len(raw.Cells)),
	}
	for r, row := range raw.Cells {
		cells := make([]document.Cell, len(row))
		for c, text := range row {
			if shouldSkipCellByStructure(raw.Cells, r, c) {
				cells[c] = document.Cell{Text: text, ColSpan: 1, RowSpan: 1, Skip: true}
				continue
			}
			cells[c] = document.Cell{
				Text:    text,
				ColSpan: detectColspanByStructure(len(row), maxColumns, c),
				RowSpan: detectRowspanByStructure(raw.Cells, r, c),
			}
		}
		t.Rows[r].Cells = cells
	}
	return t
}

// detectColspanByStructure spreads maxColumns over a row of rowCellCount
// cells. Full rows get no span, a lone cell spans the whole row, otherwise
// the columns are shared evenly and the last cell takes the remainder.
func detectColspanByStructure(rowCellCount, maxColumns, cellIndex int) int {
	if rowCellCount <= 0 || rowCellCount >= maxColumns {
		return 1
	}
	if rowCellCount == 1 {
		return maxColumns
	}
	span := maxColumns / rowCellCount
	if cellIndex == rowCellCount-1 {
		span += maxColumns % rowCellCount
	}
	return span
}

// detectRowspanByStructure counts how many rows the non-empty cell at
// (row, col) covers. An empty cell below it continues the span only when
// its row has content elsewhere; a short row, a non-empty cell or a fully
// blank row ends it.
func detectRowspanByStructure(cells [][]string, row, col int) int {
	if isBlank(cells[row][col]) {
		return 1
	}
	span := 1
	for r := row + 1; r < len(cells); r++ {
		if col >= len(cells[r]) {
			break
		}
		if !isBlank(cells[r][col]) {
			break
		}
		if !hasContent(cells[r]) {
			break
		}
		span++
	}
	return span
}

// shouldSkipCellByStructure reports whether the cell at (row, col) lies
// under the row span of a non-empty cell above it. The ancestor's span is
// recomputed rather than cached so the decision always agrees with
// detectRowspanByStructure.
func shouldSkipCellByStructure(cells [][]string, row, col int) bool {
	if !isBlank(cells[row][col]) {
		return false
	}
	for r := row - 1; r >= 0; r-- {
		if col >= len(cells[r]) {
			return false
		}
		if !isBlank(cells[r][col]) {
			return detectRowspanByStructure(cells, r, col) > row-r
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func hasContent(row []string) bool {
	for _, s := range row {
		if !isBlank(s) {
			return true
		}
	}
	return false
}
