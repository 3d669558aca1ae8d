package render

import (
	"regexp"
	"strings"
)

// invisible matches control, zero-width and exotic space characters that
// word processors leave around table markup.
const invisible = `[\x{0000}-\x{001F}\x{007F}-\x{009F}\x{00A0}\x{1680}\x{180E}\x{2000}-\x{200F}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]+`

var (
	beforeCell     = regexp.MustCompile(invisible + `(<td)`)
	beforeRow      = regexp.MustCompile(invisible + `(<tr)`)
	afterCellClose = regexp.MustCompile(`(</td>)` + invisible)
	afterRowClose  = regexp.MustCompile(`(</tr>)` + invisible)
)

// CleanTableHTML removes invisible characters directly before <td and <tr
// and directly after </td> and </tr>.
func CleanTableHTML(s string) string {
	if s == "" {
		return s
	}
	s = beforeCell.ReplaceAllString(s, "$1")
	s = beforeRow.ReplaceAllString(s, "$1")
	s = afterCellClose.ReplaceAllString(s, "$1")
	s = afterRowClose.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
