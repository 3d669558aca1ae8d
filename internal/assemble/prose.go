package assemble

import (
	"bufio"
	"strings"

	"github.com/hanpama/wordtable/internal/document"
)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "ul": true,
}

// ignoredElements carry no body text.
var ignoredElements = map[string]bool{
	"head": true, "script": true, "style": true, "title": true,
}

var proseEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// ProseHandler renders a document event stream as markdown. Each outermost
// table is replaced by a placeholder on its own paragraph and the table's
// text is fingerprinted, so the caller can splice rendered tables back in.
// A table without cells resolves to nothing and gets no placeholder.
type ProseHandler struct {
	w           *bufio.Writer
	classifier  *Classifier
	placeholder string
	inline      bool

	wrote        bool
	ignoreDepth  int
	tableDepth   int
	cellIndex    int
	tableCells   int
	tableText    strings.Builder
	fingerprints []string
	err          error
}

// NewProseHandler writes to w. With inline set, tables are written as
// pipe-separated text lines instead of placeholders.
func NewProseHandler(w *bufio.Writer, classifier *Classifier, placeholder string, inline bool) *ProseHandler {
	return &ProseHandler{w: w, classifier: classifier, placeholder: placeholder, inline: inline}
}

func (h *ProseHandler) StartElement(name string, attrs map[string]string) {
	name = strings.ToLower(name)
	if ignoredElements[name] {
		h.ignoreDepth++
		return
	}
	if h.ignoreDepth > 0 {
		return
	}

	if name == document.ElemTable {
		h.tableDepth++
		if h.tableDepth == 1 {
			h.tableText.Reset()
			h.tableCells = 0
			h.block()
		}
		return
	}
	if h.tableDepth > 0 {
		if name == document.ElemCell && h.tableDepth == 1 {
			h.tableCells++
		}
		if h.inline {
			h.inlineTableStart(name)
		}
		return
	}

	switch name {
	case document.ElemImage:
		alt := strings.ReplaceAll(attrs["alt"], "\n", "")
		h.write("![" + alt + "](" + attrs["src"] + ")")
		return
	case document.ElemBreak:
		h.write("\n")
		return
	}

	if level, ok := h.classifier.Classify(name, attrs); ok {
		h.block()
		h.write(Prefix(level) + " ")
		return
	}
	if blockElements[name] {
		h.block()
		if name == document.ElemListItem {
			h.write("- ")
		}
	}
}

func (h *ProseHandler) EndElement(name string) {
	name = strings.ToLower(name)
	if ignoredElements[name] {
		if h.ignoreDepth > 0 {
			h.ignoreDepth--
		}
		return
	}
	if h.ignoreDepth > 0 {
		return
	}

	if name == document.ElemTable && h.tableDepth > 0 {
		h.tableDepth--
		if h.tableDepth == 0 && h.tableCells > 0 {
			if !h.inline {
				h.write(h.placeholder)
			}
			h.fingerprints = append(h.fingerprints, Fingerprint(h.tableText.String()))
			h.block()
		}
		return
	}
	if h.tableDepth > 0 {
		if h.inline && name == document.ElemRow && h.tableDepth == 1 {
			h.write("\n")
		}
		return
	}

	if _, ok := h.classifier.Classify(name, nil); ok || blockElements[name] {
		h.block()
	}
}

func (h *ProseHandler) Characters(text string) {
	if h.ignoreDepth > 0 || text == "" {
		return
	}
	if h.tableDepth > 0 {
		h.tableText.WriteString(text)
		if h.inline {
			h.write(proseEscaper.Replace(strings.ReplaceAll(text, "\n", " ")))
		}
		return
	}
	h.write(proseEscaper.Replace(text))
}

func (h *ProseHandler) inlineTableStart(name string) {
	switch name {
	case document.ElemRow:
		if h.tableDepth == 1 {
			h.cellIndex = 0
		}
	case document.ElemCell:
		if h.tableDepth == 1 {
			if h.cellIndex > 0 {
				h.write(" | ")
			}
			h.cellIndex++
		} else {
			h.write(" ")
		}
	case document.ElemBreak:
		h.write(" ")
	}
}

// block separates what follows from what came before by a blank line.
// Surplus newlines are collapsed after assembly.
func (h *ProseHandler) block() {
	if h.wrote {
		h.write("\n\n")
	}
}

func (h *ProseHandler) write(s string) {
	if h.err != nil || s == "" {
		return
	}
	_, h.err = h.w.WriteString(s)
	h.wrote = true
}

// Fingerprints returns one fingerprint per outermost table, in encounter
// order.
func (h *ProseHandler) Fingerprints() []string {
	return h.fingerprints
}

// Flush flushes the writer and returns the first write error.
func (h *ProseHandler) Flush() error {
	if h.err != nil {
		return h.err
	}
	return h.w.Flush()
}
