package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/hanpama/wordtable/internal/document"
)

// box is one rendered cell clamped to the sheet. Gaps left by short rows
// are filled with empty single boxes so every position has an owner.
type box struct {
	row, col   int
	rows, cols int
	lines      []string
}

// sheet is the character layout of a table: which box owns each grid
// position and how wide and tall each column and row is drawn.
type sheet struct {
	nrows, ncols int
	boxes        []*box
	owner        [][]*box
	widths       []int // content columns per grid column
	heights      []int // display lines per grid row
}

const (
	colGap = 3 // " | " between two columns of one box
	rowGap = 0 // spanned rows share no rule line
)

// Text renders t as an ASCII box table. Merged cells are drawn as one box
// and their lines flow across the rows they span.
func Text(t *document.Table) string {
	if len(t.Rows) == 0 || t.MaxColumns == 0 {
		return ""
	}
	s := newSheet(t)
	s.fit()
	return s.String()
}

func newSheet(t *document.Table) *sheet {
	s := &sheet{
		nrows:   len(t.Rows),
		ncols:   t.MaxColumns,
		owner:   make([][]*box, len(t.Rows)),
		widths:  make([]int, t.MaxColumns),
		heights: make([]int, len(t.Rows)),
	}
	for r := range s.owner {
		s.owner[r] = make([]*box, s.ncols)
	}

	placed, _ := document.Place(t)
	for _, p := range placed {
		if p.Col >= s.ncols {
			continue
		}
		s.claim(&box{
			row:   p.Row,
			col:   p.Col,
			rows:  min(max(p.Cell.RowSpan, 1), s.nrows-p.Row),
			cols:  min(max(p.Cell.ColSpan, 1), s.ncols-p.Col),
			lines: strings.Split(strings.TrimSpace(p.Cell.Text), "\n"),
		})
	}
	for r := range s.owner {
		for c := range s.owner[r] {
			if s.owner[r][c] == nil {
				s.claim(&box{row: r, col: c, rows: 1, cols: 1, lines: []string{""}})
			}
		}
	}
	return s
}

// claim registers b and takes every position of its span that no earlier
// box owns.
func (s *sheet) claim(b *box) {
	s.boxes = append(s.boxes, b)
	for r := b.row; r < b.row+b.rows; r++ {
		for c := b.col; c < b.col+b.cols; c++ {
			if s.owner[r][c] == nil {
				s.owner[r][c] = b
			}
		}
	}
}

// fit sizes columns and rows. Single boxes set the base sizes; spanning
// boxes then spread whatever they still lack over their span.
func (s *sheet) fit() {
	for i := range s.widths {
		s.widths[i] = 1
	}
	for i := range s.heights {
		s.heights[i] = 1
	}
	for _, single := range []bool{true, false} {
		for _, b := range s.boxes {
			if (b.cols == 1) == single {
				grow(s.widths, b.col, b.cols, colGap, b.width())
			}
			if (b.rows == 1) == single {
				grow(s.heights, b.row, b.rows, rowGap, len(b.lines))
			}
		}
	}
}

func (b *box) width() int {
	w := 0
	for _, line := range b.lines {
		w = max(w, displayWidth(line))
	}
	return w
}

// span is the drawn size of n sizes starting at from with gap between them.
func span(sizes []int, from, n, gap int) int {
	total := gap * (n - 1)
	for _, v := range sizes[from : from+n] {
		total += v
	}
	return total
}

// grow widens sizes[from:from+n] evenly until their span reaches need.
func grow(sizes []int, from, n, gap, need int) {
	extra := need - span(sizes, from, n, gap)
	if extra <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		sizes[from+i] += extra / n
		if i < extra%n {
			sizes[from+i]++
		}
	}
}

func (s *sheet) String() string {
	var sb strings.Builder
	for r := 0; r <= s.nrows; r++ {
		s.writeRule(&sb, r)
		if r == s.nrows {
			break
		}
		for line := 0; line < s.heights[r]; line++ {
			s.writeLine(&sb, r, line)
		}
	}
	return sb.String()
}

// ruled reports whether the boundary above row r is drawn at column c.
func (s *sheet) ruled(r, c int) bool {
	if r == 0 || r == s.nrows {
		return true
	}
	return s.owner[r-1][c] != s.owner[r][c]
}

// split reports whether row r has a vertical line between c and c+1.
func (s *sheet) split(r, c int) bool {
	if r < 0 || r >= s.nrows {
		return false
	}
	return s.owner[r][c] != s.owner[r][c+1]
}

// writeRule draws the boundary above row r, or the bottom border when r is
// the row count.
func (s *sheet) writeRule(sb *strings.Builder, r int) {
	edge := "|"
	if s.ruled(r, 0) {
		edge = "+"
	}
	sb.WriteString(edge)
	for c := 0; c < s.ncols; c++ {
		fill := " "
		if s.ruled(r, c) {
			fill = "-"
		}
		sb.WriteString(strings.Repeat(fill, s.widths[c]+2))
		if c == s.ncols-1 {
			break
		}
		sb.WriteByte(junction(
			s.ruled(r, c) || s.ruled(r, c+1),
			s.split(r-1, c) || s.split(r, c),
		))
	}
	edge = "|"
	if s.ruled(r, s.ncols-1) {
		edge = "+"
	}
	sb.WriteString(edge)
	sb.WriteByte('\n')
}

func junction(horizontal, vertical bool) byte {
	switch {
	case horizontal && vertical:
		return '+'
	case horizontal:
		return '-'
	case vertical:
		return '|'
	}
	return ' '
}

// writeLine draws display line n of row r. A box spanning several rows
// continues its text where the previous row left off.
func (s *sheet) writeLine(sb *strings.Builder, r, n int) {
	sb.WriteByte('|')
	for c := 0; c < s.ncols; {
		b := s.owner[r][c]
		run := 1
		for c+run < s.ncols && s.owner[r][c+run] == b {
			run++
		}

		var text string
		if c == b.col {
			if i := span(s.heights, b.row, r-b.row+1, rowGap) - s.heights[r] + n; i < len(b.lines) {
				text = b.lines[i]
			}
		}
		w := span(s.widths, c, run, colGap)
		sb.WriteByte(' ')
		sb.WriteString(text)
		sb.WriteString(strings.Repeat(" ", max(w-displayWidth(text), 0)))
		sb.WriteString(" |")
		c += run
	}
	sb.WriteByte('\n')
}

// displayWidth measures s in terminal columns; wide CJK runes count two.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
