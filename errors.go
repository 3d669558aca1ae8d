package wordtable

import (
	"errors"
	"fmt"

	"github.com/hanpama/wordtable/internal/doc"
)

var (
	// ErrUnsupportedFormat indicates the input is neither a binary nor an
	// XML word-processing document.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrDocumentTooLarge indicates the input exceeds MaxDocumentSizeMB.
	ErrDocumentTooLarge = errors.New("document too large")

	ErrInvalidOptions = errors.New("invalid options")

	// ErrEncrypted indicates a password protected binary document.
	ErrEncrypted = doc.ErrEncrypted
)

// ConversionError records which document and which step failed.
type ConversionError struct {
	Path string
	Op   string // "open", "detect", "parse", "assemble", "format"
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion of %q failed during %s: %v", e.Path, e.Op, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
