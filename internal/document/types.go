// Package document holds the format-neutral table model shared by the
// readers, the merge resolvers and the renderers.
package document

// Cell is one logical table cell.
type Cell struct {
	Text    string
	ColSpan int
	RowSpan int

	// Skip marks a position covered by an earlier cell's span. Skipped cells
	// stay in their row so the declared cell count is preserved, but they are
	// never rendered.
	Skip bool
}

// Row is the sequence of cells as they physically occur in the source.
type Row struct {
	Cells []Cell
}

// DeclaredCellCount returns the number of physical cells in the row,
// skipped ones included.
func (r Row) DeclaredCellCount() int {
	return len(r.Cells)
}

// Table is a resolved table.
type Table struct {
	Index      int // encounter position in the document
	Offset     int // position of first occurrence in the source
	Rows       []Row
	MaxColumns int
}

// Text returns the text of every rendered cell in reading order, joined
// without separators.
func (t *Table) Text() string {
	var n int
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			n += len(cell.Text)
		}
	}
	buf := make([]byte, 0, n)
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if cell.Skip {
				continue
			}
			buf = append(buf, cell.Text...)
		}
	}
	return string(buf)
}

// VMerge is the vertical merge state declared on a cell.
type VMerge int

const (
	VMergeNone VMerge = iota
	VMergeRestart
	VMergeContinue
)

func (v VMerge) String() string {
	switch v {
	case VMergeRestart:
		return "restart"
	case VMergeContinue:
		return "continue"
	}
	return "none"
}

// ExplicitCell is a cell read from a format that declares its merges.
type ExplicitCell struct {
	Text     string
	GridSpan int
	VMerge   VMerge
}

// ExplicitTable is a table as read from a format that declares its merges.
type ExplicitTable struct {
	Offset int
	Rows   [][]ExplicitCell
}

// PlainTable is a ragged text matrix read from a format without merge
// metadata.
type PlainTable struct {
	Offset int
	Cells  [][]string
}
