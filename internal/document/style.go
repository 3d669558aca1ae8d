package document

import (
	"regexp"
	"strings"
)

var headingStyle = regexp.MustCompile(`(?i)^heading\s*(\d)$`)

// ParagraphElement maps a paragraph style name to the element a paragraph
// is emitted as: hN for the built-in heading styles, p with the name as
// class otherwise. Whitespace in the class is replaced with underscores.
func ParagraphElement(styleName string) (string, map[string]string) {
	styleName = strings.TrimSpace(styleName)
	if styleName == "" {
		return ElemParagraph, nil
	}
	if m := headingStyle.FindStringSubmatch(styleName); m != nil && m[1] != "0" {
		return "h" + m[1], nil
	}
	return ElemParagraph, map[string]string{"class": strings.Join(strings.Fields(styleName), "_")}
}
