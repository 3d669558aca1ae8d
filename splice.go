package wordtable

import (
	"fmt"
	"io"

	"github.com/hanpama/wordtable/internal/assemble"
	"github.com/hanpama/wordtable/internal/render"
	"github.com/hanpama/wordtable/internal/xhtml"
)

// Splice merges already rendered tables into an XHTML rendering of a
// document's prose. The i-th table of the XHTML is replaced by tables[i];
// table HTML is cleaned of invisible characters first.
func Splice(r io.Reader, tables []string, opts Options) (string, error) {
	return New(opts).Splice(r, tables)
}

func (c *Converter) Splice(r io.Reader, tables []string) (string, error) {
	entries := make([]assemble.Entry, len(tables))
	for i, t := range tables {
		entries[i] = assemble.Entry{Content: render.CleanTableHTML(t)}
	}

	classifier, err := assemble.NewClassifier(c.opts.Headings)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	coord := assemble.New(classifier,
		assemble.WithLogger(c.log),
		assemble.WithPlaceholder(c.opts.Placeholder),
	)
	out, err := coord.Assemble(xhtml.New(r), entries)
	if err != nil {
		return "", fmt.Errorf("failed to splice tables: %w", err)
	}
	return out.Content, nil
}
