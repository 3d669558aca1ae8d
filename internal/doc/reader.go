package doc

import (
	"errors"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"

	"github.com/hanpama/wordtable/internal/document"
)

// ErrEncrypted is returned for password protected documents.
var ErrEncrypted = errors.New("password encrypted documents are not supported")

const (
	wordDocumentStream = "WordDocument"
	summaryStream      = "\x05SummaryInformation"
)

// Reader wraps an open binary word-processing document. The whole body is
// decoded on Open; Walk and Tables replay it.
type Reader struct {
	Fib      Fib
	blocks   []block
	metadata map[string]string
}

// Open reads a compound file and decodes its text, paragraph properties
// and style names.
func Open(ra io.ReaderAt) (*Reader, error) {
	streams, err := readStreams(ra, wordDocumentStream, "0Table", "1Table", summaryStream)
	if err != nil {
		return nil, fmt.Errorf("failed to open compound file: %w", err)
	}
	return decode(streams)
}

func decode(streams map[string][]byte) (*Reader, error) {
	word := streams[wordDocumentStream]
	if word == nil {
		return nil, fmt.Errorf("stream %s not found", wordDocumentStream)
	}

	r := &Reader{}
	var err error
	r.Fib, err = readFib(word)
	if err != nil {
		return nil, fmt.Errorf("failed to read FIB: %w", err)
	}
	if r.Fib.Flags.Encrypted() {
		return nil, ErrEncrypted
	}

	tableName := r.Fib.Flags.TableStream()
	table := streams[tableName]
	if table == nil {
		return nil, fmt.Errorf("stream %s not found", tableName)
	}

	pieces, err := readPieces(table, r.Fib.Clx)
	if err != nil {
		return nil, fmt.Errorf("failed to read piece table: %w", err)
	}
	text, err := decodeText(word, pieces, r.Fib.CcpText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode text: %w", err)
	}
	runs, err := readPapxRuns(word, table, r.Fib.PlcfBtePapx)
	if err != nil {
		return nil, fmt.Errorf("failed to read paragraph properties: %w", err)
	}
	names, err := readStyleNames(table, r.Fib.Stshf)
	if err != nil {
		// headings fall back to the built-in style indexes
		names = nil
	}

	r.blocks = buildBlocks(splitParagraphs(text, runs), names)
	r.metadata = readSummary(streams[summaryStream])
	return r, nil
}

// readStreams reads the named root-level streams of the compound file.
// Streams that are absent are missing from the result.
func readStreams(ra io.ReaderAt, names ...string) (map[string][]byte, error) {
	doc, err := mscfb.New(ra)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	streams := make(map[string][]byte, len(names))
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if len(entry.Path) > 0 || !wanted[entry.Name] {
			continue
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to read stream %s: %w", entry.Name, err)
		}
		streams[entry.Name] = data
	}
	return streams, nil
}

// Metadata returns the summary information properties of the document.
func (r *Reader) Metadata() map[string]string {
	return r.metadata
}

// Walk streams the document body to h.
func (r *Reader) Walk(h document.Handler) error {
	for _, b := range r.blocks {
		if b.table != nil {
			b.table.walk(h)
			continue
		}
		b.para.walk(h)
	}
	return nil
}

// Tables returns the top-level tables in document order. Offset is the
// character position of the table's first character.
func (r *Reader) Tables() []document.PlainTable {
	var tables []document.PlainTable
	for _, b := range r.blocks {
		if b.table != nil {
			tables = append(tables, b.table.plain())
		}
	}
	return tables
}
