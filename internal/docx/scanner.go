package docx

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/hanpama/wordtable/internal/document"
)

// Cell attributes carried on td events.
const (
	AttrGridSpan = "colspan"
	AttrVMerge   = "vmerge"
)

// skipped elements carry no body text, or duplicate content found
// elsewhere in the run.
var skipped = map[string]bool{
	"rPr": true, "tblPr": true, "tblGrid": true, "trPr": true,
	"sectPr": true, "instrText": true, "delText": true, "del": true,
	"moveFrom": true, "Fallback": true, "commentReference": true,
}

// bodyScanner converts the document part's token stream into handler
// events. Paragraph and cell start events are held back until their
// property element has been read, since the element name and attributes
// depend on it.
type bodyScanner struct {
	reader  *Reader
	decoder *xml.Decoder
	h       document.Handler

	inText      bool
	pendingPara bool
	paraStack   []string
	pendingCell bool
}

func newBodyScanner(r *Reader, in io.Reader, h document.Handler) *bodyScanner {
	return &bodyScanner{reader: r, decoder: xml.NewDecoder(in), h: h}
}

func (s *bodyScanner) run() error {
	for {
		token, err := s.decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}

		switch elem := token.(type) {
		case xml.StartElement:
			if err := s.handleStartElement(elem); err != nil {
				return err
			}
		case xml.EndElement:
			s.handleEndElement(elem)
		case xml.CharData:
			if s.inText {
				s.h.Characters(string(elem))
			}
		}
	}
}

func (s *bodyScanner) handleStartElement(elem xml.StartElement) error {
	localName := elem.Name.Local

	if skipped[localName] {
		return s.decoder.Skip()
	}
	if localName != "pPr" {
		s.flushParagraph(nil)
	}
	if localName != "tcPr" {
		s.flushCell(nil)
	}

	switch localName {
	case "p":
		s.pendingPara = true
	case "pPr":
		if !s.pendingPara {
			return s.decoder.Skip()
		}
		var ppr paragraphPropsXML
		if err := s.decoder.DecodeElement(&ppr, &elem); err != nil {
			return fmt.Errorf("failed to decode paragraph properties: %w", err)
		}
		s.flushParagraph(&ppr)
	case "t":
		s.inText = true
	case "tab":
		s.h.Characters("\t")
	case "br", "cr":
		s.h.StartElement(document.ElemBreak, nil)
		s.h.EndElement(document.ElemBreak)
	case "drawing", "pict", "object":
		return s.readImage(elem)
	case "hyperlink":
		href := s.reader.rels[attr(elem, "id")]
		if anchor := attr(elem, "anchor"); href == "" && anchor != "" {
			href = "#" + anchor
		}
		var attrs map[string]string
		if href != "" {
			attrs = map[string]string{"href": href}
		}
		s.h.StartElement(document.ElemLink, attrs)
	case "tbl":
		s.h.StartElement(document.ElemTable, nil)
	case "tr":
		s.h.StartElement(document.ElemRow, nil)
	case "tc":
		s.pendingCell = true
	case "tcPr":
		if !s.pendingCell {
			return s.decoder.Skip()
		}
		var tcpr cellPropsXML
		if err := s.decoder.DecodeElement(&tcpr, &elem); err != nil {
			return fmt.Errorf("failed to decode cell properties: %w", err)
		}
		s.flushCell(&tcpr)
	}
	return nil
}

func (s *bodyScanner) handleEndElement(elem xml.EndElement) {
	switch elem.Name.Local {
	case "p":
		s.flushParagraph(nil)
		if n := len(s.paraStack); n > 0 {
			s.h.EndElement(s.paraStack[n-1])
			s.paraStack = s.paraStack[:n-1]
		}
	case "t":
		s.inText = false
	case "hyperlink":
		s.h.EndElement(document.ElemLink)
	case "tbl":
		s.h.EndElement(document.ElemTable)
	case "tr":
		s.h.EndElement(document.ElemRow)
	case "tc":
		s.flushCell(nil)
		s.h.EndElement(document.ElemCell)
	}
}

func (s *bodyScanner) flushParagraph(ppr *paragraphPropsXML) {
	if !s.pendingPara {
		return
	}
	s.pendingPara = false

	var styleID string
	var list bool
	if ppr != nil {
		styleID = ppr.Style.Val
		list = ppr.NumPr != nil
	}
	name, attrs := s.reader.paragraphElement(styleID)
	if list && name == document.ElemParagraph {
		name = document.ElemListItem
	}
	s.paraStack = append(s.paraStack, name)
	s.h.StartElement(name, attrs)
}

func (s *bodyScanner) flushCell(tcpr *cellPropsXML) {
	if !s.pendingCell {
		return
	}
	s.pendingCell = false

	var attrs map[string]string
	if tcpr != nil {
		attrs = map[string]string{}
		if tcpr.GridSpan != nil && tcpr.GridSpan.Val != "" {
			attrs[AttrGridSpan] = tcpr.GridSpan.Val
		}
		if tcpr.VMerge != nil {
			// an absent value continues the merge above
			if tcpr.VMerge.Val == "restart" {
				attrs[AttrVMerge] = document.VMergeRestart.String()
			} else {
				attrs[AttrVMerge] = document.VMergeContinue.String()
			}
		}
	}
	s.h.StartElement(document.ElemCell, attrs)
}

// readImage consumes a drawing or VML picture and emits one img event with
// the description as alt text and the resolved media part as src.
func (s *bodyScanner) readImage(start xml.StartElement) error {
	var alt, src string
	for depth := 1; depth > 0; {
		token, err := s.decoder.Token()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", start.Name.Local, err)
		}
		switch elem := token.(type) {
		case xml.StartElement:
			depth++
			switch elem.Name.Local {
			case "docPr":
				if alt = attr(elem, "descr"); alt == "" {
					alt = attr(elem, "name")
				}
			case "blip":
				src = s.reader.rels[attr(elem, "embed")]
			case "imagedata":
				src = s.reader.rels[attr(elem, "id")]
				if alt == "" {
					alt = attr(elem, "title")
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	s.h.StartElement(document.ElemImage, map[string]string{"alt": alt, "src": src})
	s.h.EndElement(document.ElemImage)
	return nil
}
