package doc

import (
	"bytes"
	"strings"

	"github.com/richardlehane/msoleps"
)

var summaryKeys = map[string]string{
	"title":        "title",
	"subject":      "subject",
	"author":       "author",
	"keywords":     "keywords",
	"comments":     "description",
	"lastauthor":   "lastModifiedBy",
	"createtime":   "created",
	"lastsavetime": "modified",
	"appname":      "application",
}

// readSummary decodes the SummaryInformation property set. Unreadable sets
// yield no metadata.
func readSummary(b []byte) map[string]string {
	meta := map[string]string{}
	if len(b) == 0 {
		return meta
	}

	props := msoleps.New()
	if err := props.Reset(bytes.NewReader(b)); err != nil {
		return meta
	}
	for _, prop := range props.Property {
		key, ok := summaryKeys[strings.ToLower(prop.Name)]
		if !ok {
			continue
		}
		if val := strings.TrimSpace(prop.String()); val != "" {
			meta[key] = val
		}
	}
	return meta
}
