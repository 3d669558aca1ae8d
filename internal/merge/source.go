// Package merge resolves raw source tables into document.Table values with
// colspan, rowspan and skip flags filled in.
//
// Two sources exist. ExplicitSource reads formats that declare their merges
// per cell. HeuristicSource reconstructs merges from the shape and content
// of a plain text matrix. Neither ever fails: ambiguous input is repaired
// locally and yields a best-effort table.
package merge

import "github.com/hanpama/wordtable/internal/document"

// TableSource yields the resolved tables of one document in document order.
// It is implemented only by *ExplicitSource and *HeuristicSource.
type TableSource interface {
	ExtractTables() []*document.Table
	tableSource()
}

// dedupe drops tables whose offset was already seen, drops empty tables and
// renumbers the survivors.
func dedupe(tables []*document.Table) []*document.Table {
	seen := make(map[int]bool, len(tables))
	out := tables[:0]
	for _, t := range tables {
		if len(t.Rows) == 0 || t.MaxColumns == 0 {
			continue
		}
		if seen[t.Offset] {
			continue
		}
		seen[t.Offset] = true
		t.Index = len(out)
		out = append(out, t)
	}
	return out
}
