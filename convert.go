package wordtable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanpama/wordtable/internal/assemble"
	"github.com/hanpama/wordtable/internal/document"
	"github.com/hanpama/wordtable/internal/merge"
	"github.com/hanpama/wordtable/internal/render"
)

// Converter turns documents into text with their tables spliced in. It is
// safe for concurrent use.
type Converter struct {
	opts Options
	log  zerolog.Logger
}

type ConverterOption func(*Converter)

// WithLogger sets the logger for warnings and progress. The default
// discards everything.
func WithLogger(l zerolog.Logger) ConverterOption {
	return func(c *Converter) { c.log = l }
}

// New returns a Converter. Options are used as given; call
// Options.Validate first to reject unusable settings.
func New(opts Options, copts ...ConverterOption) *Converter {
	c := &Converter{opts: opts, log: zerolog.Nop()}
	for _, opt := range copts {
		opt(c)
	}
	return c
}

func (c *Converter) Options() Options { return c.opts }

// Convert converts the document at path. The returned Result is never nil;
// on failure it carries the error message and Success is false.
func (c *Converter) Convert(ctx context.Context, path string) (*Result, error) {
	if c.opts.Timeout <= 0 {
		return c.convert(ctx, path)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := c.convert(ctx, path)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		// parsing does not observe ctx; its result is discarded
		res := newResult(path)
		err := &ConversionError{Path: path, Op: "convert", Err: ctx.Err()}
		res.fail(err)
		return res, err
	}
}

func (c *Converter) convert(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	res := newResult(path)
	res.OutputFormat = c.opts.OutputFormat

	err := c.run(ctx, path, res)
	res.Duration = time.Since(start)
	if err != nil {
		res.fail(err)
		c.log.Debug().Err(err).Str("path", path).Msg("conversion failed")
		return res, err
	}
	res.Success = true
	c.log.Debug().
		Str("path", path).
		Str("format", string(res.Format)).
		Int("tables", len(res.Tables)).
		Dur("duration", res.Duration).
		Msg("document converted")
	return res, nil
}

func (c *Converter) run(ctx context.Context, path string, res *Result) error {
	fail := func(op string, err error) error {
		return &ConversionError{Path: path, Op: op, Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return fail("open", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fail("open", fmt.Errorf("failed to get file info: %w", err))
	}
	res.FileSize = info.Size()
	if res.FileSize > c.opts.maxDocumentBytes() {
		return fail("open", fmt.Errorf("%w: %d bytes exceeds %d MB", ErrDocumentTooLarge, res.FileSize, c.opts.MaxDocumentSizeMB))
	}

	src, err := c.open(file, res)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fail("parse", err)
	}

	entries, warnings := c.renderTables(src.tables.ExtractTables())
	res.Warnings = append(res.Warnings, warnings...)
	for _, e := range entries {
		res.Tables = append(res.Tables, e.Content)
	}

	out, err := c.coordinator().Assemble(src.events, entries)
	if err != nil {
		return fail("assemble", err)
	}
	res.Warnings = append(res.Warnings, out.Warnings...)
	if err := ctx.Err(); err != nil {
		return fail("assemble", err)
	}

	res.Content, err = formatContent(out.Content, c.opts.OutputFormat)
	if err != nil {
		return fail("format", err)
	}

	if c.opts.IncludeMetadata {
		res.Metadata = map[string]string{"format": string(res.Format)}
		for k, v := range src.metadata {
			res.Metadata[k] = v
		}
	}
	return nil
}

// open detects the container format and parses the document.
func (c *Converter) open(file *os.File, res *Result) (*source, error) {
	head := make([]byte, 8)
	n, err := file.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConversionError{Path: res.FilePath, Op: "detect", Err: err}
	}

	res.Format = DetectFormat(head[:n], res.FilePath)
	var src *source
	switch res.Format {
	case FormatDoc:
		src, err = openDoc(file)
	case FormatDocx:
		src, err = openDocx(file, res.FileSize)
	default:
		return nil, &ConversionError{Path: res.FilePath, Op: "detect", Err: ErrUnsupportedFormat}
	}
	if err != nil {
		return nil, &ConversionError{Path: res.FilePath, Op: "parse", Err: err}
	}
	return src, nil
}

// renderTables renders the resolved tables in the style the options ask
// for. Tables whose spans do not tile their grid are kept but reported.
func (c *Converter) renderTables(tables []*document.Table) ([]assemble.Entry, []string) {
	if !c.opts.EnableTableExtraction {
		return nil, nil
	}

	var warnings []string
	entries := make([]assemble.Entry, 0, len(tables))
	for _, t := range tables {
		if cov := merge.Coverage(t); !cov.Exact() {
			c.log.Warn().Int("table", t.Index).Stringer("coverage", cov).Msg("table spans do not tile the grid")
			warnings = append(warnings, fmt.Sprintf("table %d: %s", t.Index, cov))
		}
		c.log.Debug().Int("table", t.Index).Stringer("stats", merge.Stats(t)).Msg("table resolved")

		content := c.renderTable(t)
		if msg, ok := c.verifyRendered(t, content); !ok {
			warnings = append(warnings, msg)
		}
		entries = append(entries, assemble.Entry{
			Content:     content,
			Fingerprint: assemble.Fingerprint(t.Text()),
		})
	}
	return entries, warnings
}

// verifyRendered checks that every cell line of t survived into content.
func (c *Converter) verifyRendered(t *document.Table, content string) (string, bool) {
	v := render.ValidateTexts(content, render.CellTexts(t))
	if v.AllFound() {
		return "", true
	}
	c.log.Warn().Int("table", t.Index).Strs("missing", v.Missing).Stringer("validation", v).Msg("cell text missing from rendered table")
	return fmt.Sprintf("table %d: %d of %d cell texts missing from rendered output", t.Index, len(v.Missing), v.Total()), false
}

func (c *Converter) renderTable(t *document.Table) string {
	switch {
	case c.opts.OutputFormat == FormatPlainText:
		return render.Text(t)
	case c.opts.TableAsHTML:
		return render.HTML(t)
	default:
		return render.Markdown(t)
	}
}

func (c *Converter) coordinator() *assemble.Coordinator {
	classifier, err := assemble.NewClassifier(c.opts.Headings)
	if err != nil {
		c.log.Warn().Err(err).Msg("invalid heading config, using defaults")
		classifier, _ = assemble.NewClassifier(assemble.DefaultHeadingConfig())
	}
	return assemble.New(classifier,
		assemble.WithLogger(c.log),
		assemble.WithPlaceholder(c.opts.Placeholder),
		assemble.WithInlineTables(!c.opts.EnableTableExtraction),
	)
}

// ConvertReader copies r to a temporary file and converts it. name is used
// for format detection and reporting.
func (c *Converter) ConvertReader(ctx context.Context, r io.Reader, name string) (*Result, error) {
	tmp, err := os.CreateTemp("", "wordtable-input-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	limit := c.opts.maxDocumentBytes()
	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to buffer %s: %w", name, err)
	}
	if n > limit {
		err := &ConversionError{Path: name, Op: "open", Err: ErrDocumentTooLarge}
		res := newResult(name)
		res.FileSize = n
		res.fail(err)
		return res, err
	}

	res, err := c.Convert(ctx, tmp.Name())
	res.FilePath = name
	res.FileName = filepath.Base(name)
	return res, err
}

// ExtractTables returns the rendered tables of the document at path
// without assembling its text.
func (c *Converter) ExtractTables(ctx context.Context, path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ConversionError{Path: path, Op: "open", Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &ConversionError{Path: path, Op: "open", Err: err}
	}
	res := newResult(path)
	res.FileSize = info.Size()
	if res.FileSize > c.opts.maxDocumentBytes() {
		return nil, &ConversionError{Path: path, Op: "open", Err: ErrDocumentTooLarge}
	}

	src, err := c.open(file, res)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := src.tables.ExtractTables()
	rendered := make([]string, 0, len(tables))
	for _, t := range tables {
		rendered = append(rendered, c.renderTable(t))
	}
	return rendered, nil
}
