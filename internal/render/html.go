// Package render serializes resolved tables.
//
// HTML is the canonical form and its layout is a fixed wire contract.
// Markdown and Text are lossy fallbacks for outputs that cannot carry HTML.
package render

import (
	"strconv"
	"strings"

	"github.com/hanpama/wordtable/internal/document"
)

const (
	tableOpen = `<table border="1" style="border-collapse: collapse;">`
	cellStyle = `style="border: 1px solid #ccc; padding: 8px;"`
	emptyCell = "&nbsp;"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// HTML renders t as an HTML table. Skipped cells are omitted, span
// attributes appear only when greater than one, and blank cells render as
// &nbsp;. The output depends on nothing but t.
//
// Newlines inside cell text are written as <br>. This departs from the
// plain escaped-text cell format, which keeps the raw newline.
func HTML(t *document.Table) string {
	var sb strings.Builder
	sb.WriteString(tableOpen)
	sb.WriteString("\n")
	for _, row := range t.Rows {
		sb.WriteString("  <tr>\n")
		for _, cell := range row.Cells {
			if cell.Skip {
				continue
			}
			writeCell(&sb, cell)
		}
		sb.WriteString("  </tr>\n")
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

func writeCell(sb *strings.Builder, cell document.Cell) {
	sb.WriteString("    <td")
	if cell.ColSpan > 1 {
		sb.WriteString(` colspan="`)
		sb.WriteString(strconv.Itoa(cell.ColSpan))
		sb.WriteString(`"`)
	}
	if cell.RowSpan > 1 {
		sb.WriteString(` rowspan="`)
		sb.WriteString(strconv.Itoa(cell.RowSpan))
		sb.WriteString(`"`)
	}
	sb.WriteString(" ")
	sb.WriteString(cellStyle)
	sb.WriteString(">")
	sb.WriteString(cellHTML(cell.Text))
	sb.WriteString("</td>\n")
}

func cellHTML(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyCell
	}
	text = htmlEscaper.Replace(text)
	return strings.ReplaceAll(text, "\n", "<br>")
}

// Escape applies the cell text escaping used by HTML.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}
