package doc

import (
	"regexp"
	"slices"
	"strings"

	"github.com/hanpama/wordtable/internal/document"
)

// Special characters of the document text.
const (
	picture        = 0x01
	drawnObject    = 0x08
	lineBreak      = 0x0B
	sectionBreak   = 0x0C
	paragraphMark  = '\r'
	cellMark       = 0x07
	fieldBegin     = 0x13
	fieldSeparator = 0x14
	fieldEnd       = 0x15
	nonBreakHyphen = 0x1E
)

type inlineKind int

const (
	inlineText inlineKind = iota
	inlineBreak
	inlineImage
)

type inline struct {
	kind inlineKind
	text string
}

type paragraph struct {
	cp    int
	mark  rune
	items []inline
	props paraProps
	style string
}

// block is a top-level paragraph or table.
type block struct {
	para  *paragraph
	table *tableBlock
}

type tableBlock struct {
	cp   int
	rows [][][]*paragraph
}

// splitParagraphs cuts the text at paragraph and cell marks, dropping field
// instructions and mapping special characters to inline items.
func splitParagraphs(t text, runs []papxRun) []*paragraph {
	var (
		paras  []*paragraph
		fields []bool // true while the field's instructions are being read
		sb     strings.Builder
		cur    = &paragraph{}
	)

	flush := func() {
		if sb.Len() > 0 {
			cur.items = append(cur.items, inline{kind: inlineText, text: sb.String()})
			sb.Reset()
		}
	}
	push := func(kind inlineKind) {
		flush()
		cur.items = append(cur.items, inline{kind: kind})
	}

	for i, r := range t.runes {
		switch r {
		case paragraphMark, cellMark, sectionBreak:
			props := lookup(runs, t.fcs[i])
			if r == sectionBreak && !endsRun(runs, t.fcs[i]) {
				// a page break inside the paragraph
				continue
			}
			flush()
			cur.mark = r
			cur.props = props
			paras = append(paras, cur)
			cur = &paragraph{cp: i + 1}
			continue
		case fieldBegin:
			fields = append(fields, true)
			continue
		case fieldSeparator:
			if n := len(fields); n > 0 {
				fields[n-1] = false
			}
			continue
		case fieldEnd:
			if n := len(fields); n > 0 {
				fields = fields[:n-1]
			}
			continue
		}
		if slices.Contains(fields, true) {
			continue
		}

		switch {
		case r == '\t':
			sb.WriteRune(r)
		case r == lineBreak:
			push(inlineBreak)
		case r == picture || r == drawnObject:
			push(inlineImage)
		case r == nonBreakHyphen:
			sb.WriteByte('-')
		case r < 0x20 || r == 0x7F:
			// remaining control characters carry no text
		default:
			sb.WriteRune(r)
		}
	}

	flush()
	if len(cur.items) > 0 {
		paras = append(paras, cur)
	}
	return paras
}

// endsRun reports whether the character read from fc is the last one of
// its property run, which makes it a paragraph end.
func endsRun(runs []papxRun, fc uint32) bool {
	for _, run := range runs {
		if run.fcStart <= fc && fc < run.fcEnd {
			return run.fcEnd-fc <= 2
		}
	}
	return false
}

// buildBlocks groups paragraphs into top-level paragraphs and tables.
// Paragraphs of nested tables fold into the enclosing cell. A table that
// closes without any cell is dropped.
func buildBlocks(paras []*paragraph, names map[uint16]string) []block {
	var (
		blocks []block
		tb     *tableBuilder
	)
	closeTable := func() {
		if tb == nil {
			return
		}
		if t := tb.finish(); len(t.rows) > 0 {
			blocks = append(blocks, block{table: t})
		}
		tb = nil
	}
	for _, p := range paras {
		p.style = styleName(names, p.props.istd)

		depth := p.props.depth()
		if depth == 0 {
			closeTable()
			blocks = append(blocks, block{para: p})
			continue
		}
		if tb == nil {
			tb = &tableBuilder{cp: p.cp}
		}
		tb.add(p, depth)
	}
	closeTable()
	return blocks
}

type tableBuilder struct {
	cp   int
	rows [][][]*paragraph
	row  [][]*paragraph
	cell []*paragraph
}

func (b *tableBuilder) add(p *paragraph, depth int) {
	if depth > 1 {
		if !p.props.rowEnd() && len(p.items) > 0 {
			b.cell = append(b.cell, p)
		}
		return
	}

	if p.props.rowEnd() {
		b.endCell()
		b.endRow()
		return
	}
	b.cell = append(b.cell, p)
	if p.mark == cellMark {
		b.endCell()
	}
}

func (b *tableBuilder) endCell() {
	if b.cell != nil {
		b.row = append(b.row, b.cell)
		b.cell = nil
	}
}

func (b *tableBuilder) endRow() {
	if b.row != nil {
		b.rows = append(b.rows, b.row)
		b.row = nil
	}
}

func (b *tableBuilder) finish() *tableBlock {
	b.endCell()
	b.endRow()
	return &tableBlock{cp: b.cp, rows: b.rows}
}

func (p *paragraph) walk(h document.Handler) {
	name, attrs := document.ParagraphElement(p.style)
	h.StartElement(name, attrs)
	for _, item := range p.items {
		switch item.kind {
		case inlineText:
			h.Characters(item.text)
		case inlineBreak:
			h.StartElement(document.ElemBreak, nil)
			h.EndElement(document.ElemBreak)
		case inlineImage:
			h.StartElement(document.ElemImage, map[string]string{"alt": "", "src": ""})
			h.EndElement(document.ElemImage)
		}
	}
	h.EndElement(name)
}

func (t *tableBlock) walk(h document.Handler) {
	h.StartElement(document.ElemTable, nil)
	for _, row := range t.rows {
		h.StartElement(document.ElemRow, nil)
		for _, cell := range row {
			h.StartElement(document.ElemCell, nil)
			for _, p := range cell {
				p.walk(h)
			}
			h.EndElement(document.ElemCell)
		}
		h.EndElement(document.ElemRow)
	}
	h.EndElement(document.ElemTable)
}

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)

func (t *tableBlock) plain() document.PlainTable {
	pt := document.PlainTable{Offset: t.cp, Cells: make([][]string, 0, len(t.rows))}
	for _, row := range t.rows {
		texts := make([]string, 0, len(row))
		for _, cell := range row {
			texts = append(texts, cellText(cell))
		}
		pt.Cells = append(pt.Cells, texts)
	}
	return pt
}

// cellText joins the cell's paragraphs with newlines. Each line is
// trimmed and stripped of control characters, and empty lines are dropped.
func cellText(paras []*paragraph) string {
	var lines []string
	for _, p := range paras {
		var sb strings.Builder
		for _, item := range p.items {
			switch item.kind {
			case inlineText:
				sb.WriteString(item.text)
			case inlineBreak:
				sb.WriteString("\n")
			}
		}
		for _, line := range strings.Split(sb.String(), "\n") {
			line = strings.TrimSpace(controlChars.ReplaceAllString(strings.TrimSpace(line), ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}
