package docx

import (
	"strconv"
	"strings"

	"github.com/hanpama/wordtable/internal/document"
)

// Tables returns the top-level tables of the body in document order, with
// each cell's declared grid span and vertical merge state. Text of nested
// tables is folded into the enclosing cell. The tables are collected from
// the same event stream Walk produces.
func (r *Reader) Tables() ([]document.ExplicitTable, error) {
	c := &tableCollector{}
	if err := r.Walk(c); err != nil {
		return nil, err
	}
	return c.tables, nil
}

type tableCollector struct {
	depth  int
	tables []document.ExplicitTable
	cur    *document.ExplicitTable
	cell   *cellBuilder
}

type cellBuilder struct {
	document.ExplicitCell
	paras []string
	para  strings.Builder
}

func (b *cellBuilder) endParagraph() {
	if text := strings.TrimSpace(b.para.String()); text != "" {
		b.paras = append(b.paras, text)
	}
	b.para.Reset()
}

func (c *tableCollector) StartElement(name string, attrs map[string]string) {
	switch name {
	case document.ElemTable:
		c.depth++
		if c.depth == 1 {
			c.cur = &document.ExplicitTable{Offset: len(c.tables)}
		}
		return
	}
	if c.depth != 1 {
		if c.cell != nil && name == document.ElemBreak {
			c.cell.para.WriteString("\n")
		}
		return
	}

	switch name {
	case document.ElemRow:
		c.cur.Rows = append(c.cur.Rows, nil)
	case document.ElemCell:
		c.cell = &cellBuilder{ExplicitCell: document.ExplicitCell{GridSpan: 1}}
		if n, err := strconv.Atoi(attrs[AttrGridSpan]); err == nil && n > 0 {
			c.cell.GridSpan = n
		}
		switch attrs[AttrVMerge] {
		case document.VMergeRestart.String():
			c.cell.VMerge = document.VMergeRestart
		case document.VMergeContinue.String():
			c.cell.VMerge = document.VMergeContinue
		}
	case document.ElemBreak:
		if c.cell != nil {
			c.cell.para.WriteString("\n")
		}
	}
}

func (c *tableCollector) EndElement(name string) {
	if name == document.ElemTable {
		c.depth--
		if c.depth == 0 && c.cur != nil {
			c.tables = append(c.tables, *c.cur)
			c.cur = nil
		}
		return
	}
	if c.cell == nil {
		return
	}
	if name == document.ElemCell && c.depth == 1 {
		c.cell.endParagraph()
		c.cell.Text = strings.Join(c.cell.paras, "\n")
		if n := len(c.cur.Rows); n > 0 {
			c.cur.Rows[n-1] = append(c.cur.Rows[n-1], c.cell.ExplicitCell)
		}
		c.cell = nil
		return
	}
	if isParagraph(name) {
		c.cell.endParagraph()
	}
}

func (c *tableCollector) Characters(text string) {
	if c.cell != nil {
		c.cell.para.WriteString(text)
	}
}

func isParagraph(name string) bool {
	switch name {
	case document.ElemParagraph, document.ElemListItem:
		return true
	}
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '9'
}
