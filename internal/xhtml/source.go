// Package xhtml drives a document.Handler from an already rendered XHTML
// or HTML body.
package xhtml

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/hanpama/wordtable/internal/document"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Source is a document.EventSource over markup read from r. It can be
// walked once.
type Source struct {
	r io.Reader
}

func New(r io.Reader) *Source {
	return &Source{r: r}
}

// Walk tokenizes the markup and forwards element and text events. Tag
// names are lower-cased, entities in text are decoded, and void elements
// get a matching end event.
func (s *Source) Walk(h document.Handler) error {
	z := html.NewTokenizer(s.r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to tokenize markup: %w", err)
			}
			return nil
		}

		tok := z.Token()
		switch tt {
		case html.TextToken:
			h.Characters(tok.Data)
		case html.StartTagToken, html.SelfClosingTagToken:
			h.StartElement(tok.Data, attributes(tok.Attr))
			if tt == html.SelfClosingTagToken || voidElements[tok.Data] {
				h.EndElement(tok.Data)
			}
		case html.EndTagToken:
			if !voidElements[tok.Data] {
				h.EndElement(tok.Data)
			}
		}
	}
}

func attributes(attrs []html.Attribute) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Val
	}
	return m
}
