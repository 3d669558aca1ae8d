package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/wordtable/internal/document"
)

func ec(text string, span int, vm document.VMerge) document.ExplicitCell {
	return document.ExplicitCell{Text: text, GridSpan: span, VMerge: vm}
}

func TestExplicitVerticalAndHorizontalMerge(t *testing.T) {
	src := NewExplicitSource([]document.ExplicitTable{{
		Rows: [][]document.ExplicitCell{
			{ec("A", 1, document.VMergeRestart), ec("B", 2, document.VMergeNone)},
			{ec("", 1, document.VMergeContinue), ec("C", 1, document.VMergeNone), ec("D", 1, document.VMergeNone)},
			{ec("", 1, document.VMergeContinue), ec("E", 1, document.VMergeNone), ec("F", 1, document.VMergeNone)},
		},
	}})

	tables := src.ExtractTables()
	require.Len(t, tables, 1)
	tbl := tables[0]

	assert.Equal(t, 3, tbl.MaxColumns)
	assert.Equal(t, 3, tbl.Rows[0].Cells[0].RowSpan)
	assert.Equal(t, 2, tbl.Rows[0].Cells[1].ColSpan)
	assert.True(t, tbl.Rows[1].Cells[0].Skip)
	assert.True(t, tbl.Rows[2].Cells[0].Skip)
	assert.Equal(t, 3, tbl.Rows[1].DeclaredCellCount())

	rep := Coverage(tbl)
	assert.True(t, rep.Exact(), rep.String())
}

func TestExplicitRowspanStopsAtNoneMarker(t *testing.T) {
	src := NewExplicitSource([]document.ExplicitTable{{
		Rows: [][]document.ExplicitCell{
			{ec("A", 1, document.VMergeRestart), ec("x", 1, document.VMergeNone)},
			{ec("", 1, document.VMergeContinue), ec("y", 1, document.VMergeNone)},
			{ec("B", 1, document.VMergeNone), ec("z", 1, document.VMergeNone)},
			{ec("", 1, document.VMergeContinue), ec("w", 1, document.VMergeNone)},
		},
	}})

	tbl := src.ExtractTables()[0]
	assert.Equal(t, 2, tbl.Rows[0].Cells[0].RowSpan)
	assert.Equal(t, 1, tbl.Rows[2].Cells[0].RowSpan)

	// A continuation under a row that declares no merge has nothing to
	// continue and is kept as an ordinary cell.
	last := tbl.Rows[3].Cells[0]
	assert.False(t, last.Skip)
	assert.Equal(t, 1, last.RowSpan)
	assert.True(t, Coverage(tbl).Exact())
}

func TestExplicitRowspanStopsAtShortRow(t *testing.T) {
	src := NewExplicitSource([]document.ExplicitTable{{
		Rows: [][]document.ExplicitCell{
			{ec("a", 1, document.VMergeNone), ec("B", 1, document.VMergeRestart)},
			{ec("wide", 2, document.VMergeNone)},
		},
	}})

	tbl := src.ExtractTables()[0]
	assert.Equal(t, 1, tbl.Rows[0].Cells[1].RowSpan)
	assert.True(t, Coverage(tbl).Exact())
}

func TestExplicitOrphanContinuationInFirstRow(t *testing.T) {
	src := NewExplicitSource([]document.ExplicitTable{{
		Rows: [][]document.ExplicitCell{
			{ec("lost", 1, document.VMergeContinue), ec("b", 0, document.VMergeNone)},
		},
	}})

	tbl := src.ExtractTables()[0]
	cell := tbl.Rows[0].Cells[0]
	assert.False(t, cell.Skip)
	assert.Equal(t, 1, cell.RowSpan)
	assert.Equal(t, 1, tbl.Rows[0].Cells[1].ColSpan, "zero grid span is treated as one")
}

func TestExplicitDedupeByOffset(t *testing.T) {
	row := [][]document.ExplicitCell{{ec("a", 1, document.VMergeNone)}}
	src := NewExplicitSource([]document.ExplicitTable{
		{Offset: 4, Rows: row},
		{Offset: 4, Rows: row},
		{Offset: 9},
		{Offset: 12, Rows: row},
	})

	tables := src.ExtractTables()
	require.Len(t, tables, 2)
	assert.Equal(t, 0, tables[0].Index)
	assert.Equal(t, 4, tables[0].Offset)
	assert.Equal(t, 1, tables[1].Index)
	assert.Equal(t, 12, tables[1].Offset)
}

func TestTableSourceVariants(t *testing.T) {
	sources := []TableSource{
		NewExplicitSource(nil),
		NewHeuristicSource(nil),
	}
	for _, s := range sources {
		assert.Empty(t, s.ExtractTables())
	}
}
