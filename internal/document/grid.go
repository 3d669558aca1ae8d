package document

// Grid is a transient occupancy matrix used while placing spanned cells.
type Grid struct {
	rows, cols int
	cells      []bool
}

// NewGrid returns an empty rows x cols grid.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{rows: rows, cols: cols, cells: make([]bool, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Occupied reports whether (r, c) is claimed. Positions outside the grid
// report false.
func (g *Grid) Occupied(r, c int) bool {
	if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
		return false
	}
	return g.cells[r*g.cols+c]
}

// NextFree returns the first unclaimed column at or after c in row r, or
// Cols() when the rest of the row is full.
func (g *Grid) NextFree(r, c int) int {
	for c < g.cols && g.Occupied(r, c) {
		c++
	}
	return c
}

// Mark claims the rowspan x colspan block anchored at (r, c). It returns the
// number of positions that were already claimed and the number that fell
// outside the grid.
func (g *Grid) Mark(r, c, rowspan, colspan int) (overlaps, outside int) {
	for i := r; i < r+rowspan; i++ {
		for j := c; j < c+colspan; j++ {
			if i < 0 || i >= g.rows || j < 0 || j >= g.cols {
				outside++
				continue
			}
			if g.cells[i*g.cols+j] {
				overlaps++
				continue
			}
			g.cells[i*g.cols+j] = true
		}
	}
	return overlaps, outside
}

// Free returns the number of unclaimed positions.
func (g *Grid) Free() int {
	n := 0
	for _, v := range g.cells {
		if !v {
			n++
		}
	}
	return n
}
