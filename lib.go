// Package wordtable converts word-processing documents to markdown for
// retrieval pipelines while keeping their tables intact.
//
// Both the legacy binary format (.doc) and the XML package format (.docx)
// are read. Tables are extracted with their merged cells resolved, rendered
// as HTML (or markdown pipe tables) and spliced back into the document text
// at the positions they were found.
//
// # Example Usage
//
//	conv := wordtable.New(wordtable.DefaultOptions())
//	res, err := conv.Convert(ctx, "report.docx")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(res.Content)
//
// # Supported Formats
//
// Legacy binary (.doc): OLE compound file
//   - Piece table text in Windows-1252 or UTF-16LE
//   - Tables from paragraph properties, merged cells inferred from layout
//   - Summary information metadata
//
// XML package (.docx): ZIP container
//   - Tables with declared column spans and vertical merges
//   - Heading styles, hyperlinks and images
//   - Core properties metadata
package wordtable

import (
	"context"
	"fmt"
	"io"

	"github.com/hanpama/wordtable/internal/doc"
	"github.com/hanpama/wordtable/internal/document"
	"github.com/hanpama/wordtable/internal/docx"
	"github.com/hanpama/wordtable/internal/merge"
)

// source is an opened document: its event stream, its tables and its
// metadata.
type source struct {
	events   document.EventSource
	tables   merge.TableSource
	metadata map[string]string
}

// openDoc reads a legacy binary document. Merged cells are inferred.
func openDoc(in io.ReaderAt) (*source, error) {
	reader, err := doc.Open(in)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOC file: %w", err)
	}

	return &source{
		events:   reader,
		tables:   merge.NewHeuristicSource(reader.Tables()),
		metadata: reader.Metadata(),
	}, nil
}

// openDocx reads an XML package. Merged cells are taken from the cell
// properties.
func openDocx(in io.ReaderAt, size int64) (*source, error) {
	reader, err := docx.Open(in, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOCX file: %w", err)
	}

	tables, err := reader.Tables()
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX tables: %w", err)
	}

	return &source{
		events:   reader,
		tables:   merge.NewExplicitSource(tables),
		metadata: reader.Metadata(),
	}, nil
}

// ConvertFile converts the document at path with DefaultOptions and writes
// the markdown to out.
//
// Example:
//
//	wordtable.ConvertFile("document.doc", os.Stdout)
func ConvertFile(path string, out io.Writer) error {
	res, err := New(DefaultOptions()).Convert(context.Background(), path)
	if err != nil {
		return err
	}
	return res.Write(out)
}
