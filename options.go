package wordtable

import (
	"fmt"
	"time"

	"github.com/hanpama/wordtable/internal/assemble"
)

// OutputFormat selects how Result.Content is rendered.
type OutputFormat string

const (
	FormatMarkdown  OutputFormat = "markdown"
	FormatPlainText OutputFormat = "text"
	FormatHTML      OutputFormat = "html"
	FormatJSON      OutputFormat = "json"
)

// ErrorStrategy decides what a batch does when a document fails.
type ErrorStrategy string

const (
	// FailFast cancels the remaining documents on the first failure.
	FailFast ErrorStrategy = "fail-fast"
	// SkipErrors leaves failed documents out of the batch results.
	SkipErrors ErrorStrategy = "skip-errors"
	// LogAndContinue logs failures and keeps them in the results.
	LogAndContinue ErrorStrategy = "log-and-continue"
)

// Options configures a Converter.
type Options struct {
	// TableAsHTML renders tables as HTML instead of markdown pipe tables.
	TableAsHTML bool
	// EnableTableExtraction merges tables back into the text. When false
	// tables stay inline as plain text lines.
	EnableTableExtraction bool
	IncludeMetadata       bool
	MaxDocumentSizeMB     int
	OutputFormat          OutputFormat
	ErrorStrategy         ErrorStrategy
	MaxConcurrency        int
	// Timeout bounds the conversion of a single document. Zero disables it.
	Timeout     time.Duration
	Placeholder string
	Headings    assemble.HeadingConfig
}

// DefaultOptions returns options suitable for most documents.
func DefaultOptions() Options {
	return Options{
		TableAsHTML:           true,
		EnableTableExtraction: true,
		IncludeMetadata:       false,
		MaxDocumentSizeMB:     100,
		OutputFormat:          FormatMarkdown,
		ErrorStrategy:         LogAndContinue,
		MaxConcurrency:        4,
		Timeout:               300 * time.Second,
		Placeholder:           assemble.DefaultPlaceholder,
		Headings:              assemble.DefaultHeadingConfig(),
	}
}

// RAGOptimized keeps table structure as HTML for retrieval pipelines.
func RAGOptimized() Options {
	o := DefaultOptions()
	o.TableAsHTML = true
	o.IncludeMetadata = true
	o.ErrorStrategy = LogAndContinue
	return o
}

// RAGMarkdownOptimized is RAGOptimized with markdown pipe tables.
func RAGMarkdownOptimized() Options {
	o := RAGOptimized()
	o.TableAsHTML = false
	return o
}

func HighPerformance() Options {
	o := DefaultOptions()
	o.TableAsHTML = false
	o.OutputFormat = FormatPlainText
	o.MaxDocumentSizeMB = 50
	o.ErrorStrategy = SkipErrors
	o.MaxConcurrency = 8
	o.Timeout = 60 * time.Second
	return o
}

func FullFeature() Options {
	o := DefaultOptions()
	o.TableAsHTML = true
	o.IncludeMetadata = true
	o.MaxDocumentSizeMB = 200
	o.ErrorStrategy = LogAndContinue
	o.Timeout = 600 * time.Second
	return o
}

// Preset returns the named preset: default, rag, rag-markdown,
// performance or full.
func Preset(name string) (Options, error) {
	switch name {
	case "", "default":
		return DefaultOptions(), nil
	case "rag":
		return RAGOptimized(), nil
	case "rag-markdown":
		return RAGMarkdownOptimized(), nil
	case "performance":
		return HighPerformance(), nil
	case "full":
		return FullFeature(), nil
	}
	return Options{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidOptions, name)
}

// Validate reports the first unusable setting.
func (o Options) Validate() error {
	if o.MaxDocumentSizeMB <= 0 {
		return fmt.Errorf("%w: MaxDocumentSizeMB must be positive", ErrInvalidOptions)
	}
	if o.MaxConcurrency <= 0 {
		return fmt.Errorf("%w: MaxConcurrency must be positive", ErrInvalidOptions)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: Timeout cannot be negative", ErrInvalidOptions)
	}
	switch o.OutputFormat {
	case FormatMarkdown, FormatPlainText, FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidOptions, o.OutputFormat)
	}
	switch o.ErrorStrategy {
	case FailFast, SkipErrors, LogAndContinue:
	default:
		return fmt.Errorf("%w: unknown error strategy %q", ErrInvalidOptions, o.ErrorStrategy)
	}
	if _, err := assemble.NewClassifier(o.Headings); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

func (o Options) maxDocumentBytes() int64 {
	return int64(o.MaxDocumentSizeMB) << 20
}
