package document

// Placement is a rendered cell anchored on the logical grid.
type Placement struct {
	Row, Col int
	Cell     *Cell

	// Overlaps and Outside count positions of this cell's span that were
	// already claimed or fell off the grid.
	Overlaps int
	Outside  int
}

// Place anchors every non-skipped cell on a Rows x MaxColumns grid the way
// an HTML layout engine does: each cell takes the next unclaimed column of
// its row and claims its whole span. The returned grid reflects the final
// occupancy.
func Place(t *Table) ([]Placement, *Grid) {
	g := NewGrid(len(t.Rows), t.MaxColumns)
	var out []Placement
	for r := range t.Rows {
		c := 0
		for i := range t.Rows[r].Cells {
			cell := &t.Rows[r].Cells[i]
			if cell.Skip {
				continue
			}
			c = g.NextFree(r, c)
			rs, cs := spans(cell)
			ov, off := g.Mark(r, c, rs, cs)
			out = append(out, Placement{Row: r, Col: c, Cell: cell, Overlaps: ov, Outside: off})
			c += cs
		}
	}
	return out, g
}

func spans(c *Cell) (rowspan, colspan int) {
	rowspan, colspan = c.RowSpan, c.ColSpan
	if rowspan < 1 {
		rowspan = 1
	}
	if colspan < 1 {
		colspan = 1
	}
	return rowspan, colspan
}
