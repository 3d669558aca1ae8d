package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hanpama/wordtable/internal/document"
)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
	relsPart     = "word/_rels/document.xml.rels"
	corePart     = "docProps/core.xml"
)

// Reader provides access to the body of a word-processing XML package.
type Reader struct {
	zipReader *zip.Reader
	styles    map[string]string // paragraph style id -> style name
	rels      map[string]string // relationship id -> target
	metadata  map[string]string
}

// Open opens an XML package and returns a Reader
func Open(r io.ReaderAt, size int64) (*Reader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open package as ZIP: %w", err)
	}

	reader := &Reader{
		zipReader: zipReader,
		styles:    map[string]string{},
		rels:      map[string]string{},
		metadata:  map[string]string{},
	}

	if err := reader.validateDocumentPart(); err != nil {
		return nil, err
	}

	if err := reader.loadStyles(); err != nil {
		return nil, err
	}

	if err := reader.loadRelationships(); err != nil {
		return nil, err
	}

	if err := reader.parseCoreProperties(); err != nil {
		return nil, err
	}

	return reader, nil
}

func (r *Reader) validateDocumentPart() error {
	file, err := r.zipReader.Open(documentPart)
	if err != nil {
		return fmt.Errorf("%s not found: %w", documentPart, err)
	}
	return file.Close()
}

func (r *Reader) loadStyles() error {
	file, err := r.zipReader.Open(stylesPart)
	if err != nil {
		// styles are optional
		return nil
	}
	defer file.Close()

	var stylesDoc stylesXML
	if err := xml.NewDecoder(file).Decode(&stylesDoc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", stylesPart, err)
	}

	for _, s := range stylesDoc.Styles {
		if s.Type == "paragraph" && s.ID != "" && s.Name.Val != "" {
			r.styles[s.ID] = s.Name.Val
		}
	}
	return nil
}

func (r *Reader) loadRelationships() error {
	file, err := r.zipReader.Open(relsPart)
	if err != nil {
		return nil
	}
	defer file.Close()

	var relsDoc relationshipsXML
	if err := xml.NewDecoder(file).Decode(&relsDoc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", relsPart, err)
	}

	for _, rel := range relsDoc.Relationships {
		target := rel.Target
		if rel.TargetMode != "External" && !strings.HasPrefix(target, "/") {
			target = path.Join("word", target)
		}
		r.rels[rel.ID] = strings.TrimPrefix(target, "/")
	}
	return nil
}

func (r *Reader) parseCoreProperties() error {
	file, err := r.zipReader.Open(corePart)
	if err != nil {
		return nil
	}
	defer file.Close()

	var core corePropertiesXML
	if err := xml.NewDecoder(file).Decode(&core); err != nil {
		return fmt.Errorf("failed to parse %s: %w", corePart, err)
	}

	for key, val := range map[string]string{
		"title":          core.Title,
		"subject":        core.Subject,
		"author":         core.Creator,
		"keywords":       core.Keywords,
		"description":    core.Description,
		"lastModifiedBy": core.LastModifiedBy,
		"created":        core.Created,
		"modified":       core.Modified,
	} {
		if val = strings.TrimSpace(val); val != "" {
			r.metadata[key] = val
		}
	}
	return nil
}

// Metadata returns the package's core properties.
func (r *Reader) Metadata() map[string]string {
	return r.metadata
}

// paragraphElement maps a paragraph style id to the element the paragraph
// is emitted as, falling back to the id when the style has no name.
func (r *Reader) paragraphElement(styleID string) (string, map[string]string) {
	name := r.styles[styleID]
	if name == "" {
		name = styleID
	}
	return document.ParagraphElement(name)
}

// Walk streams the document body to h.
func (r *Reader) Walk(h document.Handler) error {
	file, err := r.zipReader.Open(documentPart)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer file.Close()

	return newBodyScanner(r, file, h).run()
}
