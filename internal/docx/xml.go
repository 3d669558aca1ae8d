package docx

import "encoding/xml"

// XML element structures. Tags name local parts only, so they match
// whatever prefix the package binds to the WordprocessingML namespaces.

type valXML struct {
	Val string `xml:"val,attr"`
}

type paragraphPropsXML struct {
	XMLName xml.Name  `xml:"pPr"`
	Style   valXML    `xml:"pStyle"`
	NumPr   *struct{} `xml:"numPr"`
}

type cellPropsXML struct {
	XMLName  xml.Name `xml:"tcPr"`
	GridSpan *valXML  `xml:"gridSpan"`
	VMerge   *valXML  `xml:"vMerge"`
}

type stylesXML struct {
	XMLName xml.Name   `xml:"styles"`
	Styles  []styleXML `xml:"style"`
}

type styleXML struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"styleId,attr"`
	Name valXML `xml:"name"`
}

type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type corePropertiesXML struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	Description    string   `xml:"description"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
}

func attr(elem xml.StartElement, local string) string {
	for _, a := range elem.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
