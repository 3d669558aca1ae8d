package merge

import (
	"fmt"

	"github.com/hanpama/wordtable/internal/document"
)

// CoverageReport describes how the rendered cells of a table cover its
// rows x MaxColumns grid.
type CoverageReport struct {
	Rows, Cols int
	Overlaps   int // positions claimed by more than one cell
	Outside    int // span positions that fell off the grid
	Gaps       int // positions claimed by no cell
}

// Exact reports whether every grid position is covered exactly once.
func (c CoverageReport) Exact() bool {
	return c.Overlaps == 0 && c.Outside == 0 && c.Gaps == 0
}

func (c CoverageReport) String() string {
	return fmt.Sprintf("coverage{%dx%d overlaps=%d outside=%d gaps=%d}", c.Rows, c.Cols, c.Overlaps, c.Outside, c.Gaps)
}

// Coverage places the table's rendered cells and reports overlaps and gaps.
func Coverage(t *document.Table) CoverageReport {
	placed, g := document.Place(t)
	rep := CoverageReport{Rows: g.Rows(), Cols: g.Cols()}
	for _, p := range placed {
		rep.Overlaps += p.Overlaps
		rep.Outside += p.Outside
	}
	rep.Gaps = g.Free()
	return rep
}

// TableStats summarises a resolved table.
type TableStats struct {
	Rows    int
	Columns int
	Cells   int
	Merged  int
	Skipped int
}

// Stats counts the cells of t.
func Stats(t *document.Table) TableStats {
	st := TableStats{Rows: len(t.Rows), Columns: t.MaxColumns}
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			st.Cells++
			switch {
			case cell.Skip:
				st.Skipped++
			case cell.ColSpan > 1 || cell.RowSpan > 1:
				st.Merged++
			}
		}
	}
	return st
}

func (s TableStats) String() string {
	return fmt.Sprintf("TableStats{rows=%d, cols=%d, cells=%d, merged=%d, skipped=%d}",
		s.Rows, s.Columns, s.Cells, s.Merged, s.Skipped)
}
