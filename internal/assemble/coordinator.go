// Package assemble merges rendered tables into the markdown rendering of
// the document they came from.
//
// Tables are extracted first and queued in document order. A second,
// streaming pass renders the prose and leaves a placeholder wherever it
// meets a table. The placeholders are then replaced one by one from the
// queue. A disagreement between the two passes is reported as a warning and
// repaired: surplus placeholders are dropped and surplus tables appended.
package assemble

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hanpama/wordtable/internal/document"
)

// DefaultPlaceholder marks a table position in the prose rendering.
const DefaultPlaceholder = "<!-- TABLE_PLACEHOLDER -->"

// Coordinator runs the prose pass and splices tables into it. It holds no
// per-document state and may be shared.
type Coordinator struct {
	classifier   *Classifier
	placeholder  string
	tempDir      string
	inlineTables bool
	log          zerolog.Logger
}

type Option func(*Coordinator)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func WithPlaceholder(p string) Option {
	return func(c *Coordinator) {
		if p != "" {
			c.placeholder = p
		}
	}
}

// WithTempDir sets where the intermediate prose file is written. The
// default is os.TempDir().
func WithTempDir(dir string) Option {
	return func(c *Coordinator) { c.tempDir = dir }
}

// WithInlineTables makes the prose pass write tables as plain text lines
// instead of placeholders. Used when table extraction is disabled.
func WithInlineTables(inline bool) Option {
	return func(c *Coordinator) { c.inlineTables = inline }
}

func New(classifier *Classifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		classifier:  classifier,
		placeholder: DefaultPlaceholder,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Output is the assembled document and what happened while assembling it.
type Output struct {
	Content      string
	Placeholders int
	Tables       int
	Substituted  int
	Appended     int
	Warnings     []string
}

// Assemble renders src as markdown and replaces its table placeholders with
// entries, in order. Only a failure of the source walk or of the temporary
// file is an error.
func (c *Coordinator) Assemble(src document.EventSource, entries []Entry) (*Output, error) {
	f, err := os.CreateTemp(c.tempDir, "wordtable-prose-*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to create prose file: %w", err)
	}
	defer func() {
		f.Close()
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn().Err(err).Str("file", f.Name()).Msg("failed to remove prose file")
		}
	}()

	h := NewProseHandler(bufio.NewWriter(f), c.classifier, c.placeholder, c.inlineTables)
	if err := src.Walk(h); err != nil {
		return nil, fmt.Errorf("failed to walk document: %w", err)
	}
	if err := h.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write prose file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind prose file: %w", err)
	}
	prose, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read prose file: %w", err)
	}

	out := &Output{Tables: len(entries)}
	if c.inlineTables {
		out.Content = Normalize(string(prose))
		return out, nil
	}

	// prose may contain the marker outside any table
	out.Placeholders = strings.Count(string(prose), c.placeholder)
	out.Warnings = c.check(h.Fingerprints(), entries)
	if stray := out.Placeholders - len(h.Fingerprints()); stray > 0 {
		c.log.Warn().Int("occurrences", stray).Str("placeholder", c.placeholder).Msg("placeholder text found in prose")
		out.Warnings = append(out.Warnings, fmt.Sprintf("placeholder text occurs %d time(s) outside tables", stray))
	}

	q := NewQueue(entries)
	content := Substitute(string(prose), q, c.placeholder)
	out.Substituted = min(out.Placeholders, len(entries))
	out.Appended = len(entries) - out.Substituted
	out.Content = Normalize(content)

	c.log.Debug().
		Int("tables", out.Tables).
		Int("placeholders", out.Placeholders).
		Int("appended", out.Appended).
		Msg("tables assembled")
	return out, nil
}

// check compares the prose pass's tables with the extracted ones by count
// and by content fingerprint.
func (c *Coordinator) check(seen []string, entries []Entry) []string {
	var warnings []string
	if len(seen) != len(entries) {
		msg := fmt.Sprintf("table count mismatch: %d placeholders, %d extracted tables", len(seen), len(entries))
		c.log.Warn().Int("placeholders", len(seen)).Int("tables", len(entries)).Msg("table count mismatch")
		warnings = append(warnings, msg)
	}
	for i := 0; i < len(seen) && i < len(entries); i++ {
		if entries[i].Fingerprint == "" || seen[i] == entries[i].Fingerprint {
			continue
		}
		msg := fmt.Sprintf("table %d content differs between prose and extraction passes", i)
		c.log.Warn().Int("table", i).Str("prose", seen[i]).Str("extracted", entries[i].Fingerprint).Msg("table fingerprint mismatch")
		warnings = append(warnings, msg)
	}
	return warnings
}

// Substitute scans text once and replaces the i-th placeholder with the
// i-th queued entry. Placeholders beyond the queue are deleted and entries
// beyond the placeholders are appended at the end.
func Substitute(text string, q *Queue, placeholder string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for {
		i := strings.Index(text, placeholder)
		if i < 0 {
			sb.WriteString(text)
			break
		}
		sb.WriteString(text[:i])
		if e, ok := q.Next(); ok {
			sb.WriteString(e.Content)
		}
		text = text[i+len(placeholder):]
	}
	for _, e := range q.Drain() {
		sb.WriteString("\n\n")
		sb.WriteString(e.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

var (
	trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRun      = regexp.MustCompile(`\n{3,}`)
)

// Normalize trims trailing spaces from every line, collapses runs of blank
// lines into one and trims the result.
func Normalize(s string) string {
	s = trailingSpace.ReplaceAllString(s, "")
	s = blankRun.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return s + "\n"
}
