package merge

import "github.com/hanpama/wordtable/internal/document"

// ExplicitSource resolves tables whose cells declare a horizontal span and
// a vertical merge state.
type ExplicitSource struct {
	Tables []document.ExplicitTable
}

// NewExplicitSource returns a source over the given raw tables.
func NewExplicitSource(tables []document.ExplicitTable) *ExplicitSource {
	return &ExplicitSource{Tables: tables}
}

func (*ExplicitSource) tableSource() {}

// ExtractTables resolves every raw table. Continuation cells are kept in
// their rows with Skip set; a continuation with nothing above it to
// continue is emitted as an ordinary cell.
func (s *ExplicitSource) ExtractTables() []*document.Table {
	tables := make([]*document.Table, 0, len(s.Tables))
	for _, raw := range s.Tables {
		tables = append(tables, resolveExplicit(raw))
	}
	return dedupe(tables)
}

func resolveExplicit(raw document.ExplicitTable) *document.Table {
	cols := gridColumns(raw.Rows)
	t := &document.Table{Offset: raw.Offset, Rows: make([]document.Row, len(raw.Rows))}

	// merged[r][i] is true when cell i of row r is a valid continuation.
	merged := make([][]bool, len(raw.Rows))
	for r, row := range raw.Rows {
		merged[r] = make([]bool, len(row))
		for i, cell := range row {
			if cell.VMerge != document.VMergeContinue || r == 0 {
				continue
			}
			above := cellAt(raw.Rows[r-1], cols[r-1], cols[r][i])
			if above < 0 {
				continue
			}
			switch raw.Rows[r-1][above].VMerge {
			case document.VMergeRestart:
				merged[r][i] = true
			case document.VMergeContinue:
				merged[r][i] = merged[r-1][above]
			}
		}
	}

	for r, row := range raw.Rows {
		cells := make([]document.Cell, len(row))
		width := 0
		for i, rc := range row {
			colspan := max(rc.GridSpan, 1)
			width += colspan
			cells[i] = document.Cell{Text: rc.Text, ColSpan: colspan, RowSpan: 1}
			if merged[r][i] {
				cells[i].Skip = true
				continue
			}
			if rc.VMerge == document.VMergeRestart {
				cells[i].RowSpan = explicitRowspan(raw.Rows, cols, r, cols[r][i])
			}
		}
		t.Rows[r].Cells = cells
		t.MaxColumns = max(t.MaxColumns, width)
	}
	return t
}

// explicitRowspan counts the restart row plus every following row that
// declares a continuation at the same grid column.
func explicitRowspan(rows [][]document.ExplicitCell, cols [][]int, r, col int) int {
	span := 1
	for next := r + 1; next < len(rows); next++ {
		i := cellAt(rows[next], cols[next], col)
		if i < 0 || rows[next][i].VMerge != document.VMergeContinue {
			break
		}
		span++
	}
	return span
}

// gridColumns returns the grid column each physical cell starts at.
func gridColumns(rows [][]document.ExplicitCell) [][]int {
	cols := make([][]int, len(rows))
	for r, row := range rows {
		cols[r] = make([]int, len(row))
		c := 0
		for i, cell := range row {
			cols[r][i] = c
			c += max(cell.GridSpan, 1)
		}
	}
	return cols
}

// cellAt returns the index of the cell starting at grid column col, or -1.
func cellAt(row []document.ExplicitCell, starts []int, col int) int {
	for i := range row {
		if starts[i] == col {
			return i
		}
	}
	return -1
}
