package wordtable

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var headingMarker = regexp.MustCompile(`(?m)^#{1,9} `)

// formatContent turns assembled markdown into the requested output format.
// JSON keeps the markdown; the whole Result is encoded by Write.
func formatContent(md string, format OutputFormat) (string, error) {
	switch format {
	case FormatMarkdown, FormatJSON, "":
		return md, nil
	case FormatPlainText:
		return headingMarker.ReplaceAllString(md, ""), nil
	case FormatHTML:
		return markdownToHTML(md), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

// markdownToHTML renders markdown with raw HTML blocks, such as rendered
// tables, passed through.
func markdownToHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(doc, renderer))
}

// Write writes the result to w: the encoded Result for JSON output, the
// content otherwise.
func (r *Result) Write(w io.Writer) error {
	if r.OutputFormat == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	_, err := io.WriteString(w, r.Content)
	return err
}
