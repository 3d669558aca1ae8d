package render

import (
	"fmt"
	"strings"

	"github.com/hanpama/wordtable/internal/document"
)

// Validation reports which expected texts were found in rendered output.
type Validation struct {
	Found   []string
	Missing []string
}

// ValidateTexts checks that every non-blank text appears in output, either
// verbatim, HTML-escaped or with pipes escaped as in a markdown table.
func ValidateTexts(output string, texts []string) Validation {
	var v Validation
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.Contains(output, text) ||
			strings.Contains(output, Escape(text)) ||
			strings.Contains(output, strings.ReplaceAll(text, "|", `\|`)) {
			v.Found = append(v.Found, text)
		} else {
			v.Missing = append(v.Missing, text)
		}
	}
	return v
}

// CellTexts returns every non-blank line of the rendered cells of t, in
// reading order. Renderers break cell text at newlines, so lines are what
// survive into every output style.
func CellTexts(t *document.Table) []string {
	var texts []string
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if cell.Skip {
				continue
			}
			for _, line := range strings.Split(cell.Text, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					texts = append(texts, line)
				}
			}
		}
	}
	return texts
}

func (v Validation) Total() int { return len(v.Found) + len(v.Missing) }

func (v Validation) AllFound() bool { return len(v.Missing) == 0 }

// SuccessRate is the share of found texts; an empty validation scores 1.
func (v Validation) SuccessRate() float64 {
	if v.Total() == 0 {
		return 1
	}
	return float64(len(v.Found)) / float64(v.Total())
}

func (v Validation) String() string {
	return fmt.Sprintf("Validation{found=%d, missing=%d, successRate=%.2f}", len(v.Found), len(v.Missing), v.SuccessRate())
}
