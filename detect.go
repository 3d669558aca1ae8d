package wordtable

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies a document container.
type Format string

const (
	FormatUnknown Format = "unknown"
	// FormatDoc is the legacy binary format in an OLE compound file.
	FormatDoc Format = "doc"
	// FormatDocx is the XML package format in a ZIP container.
	FormatDocx Format = "docx"
)

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic = []byte("PK\x03\x04")
)

// DetectFormat identifies a document by its leading bytes, falling back to
// the extension of name when the bytes are inconclusive.
func DetectFormat(head []byte, name string) Format {
	switch {
	case bytes.HasPrefix(head, oleMagic):
		return FormatDoc
	case bytes.HasPrefix(head, zipMagic):
		return FormatDocx
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".doc", ".dot":
		return FormatDoc
	case ".docx", ".dotx", ".docm":
		return FormatDocx
	}
	return FormatUnknown
}
