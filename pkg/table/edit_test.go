package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/paradigm/pkg/table"
)

// tallTable is
//
//	| g | a |
//	| g | b |
//	| c | d |
func tallTable(t *testing.T) table.Value[text] {
	t.Helper()
	v, err := table.FromRows([]table.Row[text]{
		{Key: "r0", Cells: []table.Cell[text]{c("g", 2, 1), c("a", 1, 1)}},
		{Key: "r1", Cells: []table.Cell[text]{c("b", 1, 1)}},
		{Key: "r2", Cells: []table.Cell[text]{c("c", 1, 1), c("d", 1, 1)}},
	}, table.SequentialKeys("n"))
	require.NoError(t, err)
	return v
}

func TestInsertRowGrowsSpanningCells(t *testing.T) {
	v := tallTable(t)
	next, err := v.InsertRow(1)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"g", "a"},
		{"g", "n2"},
		{"g", "b"},
		{"c", "d"},
	}, grid(next))
	assert.Equal(t, []string{"r0", "n1", "r1", "r2"}, rowKeys(next))

	g, _ := next.Cell("g")
	assert.Equal(t, 3, g.RowSpan)
	// original untouched
	assert.Equal(t, 3, v.Layout().RowCount())
}

func TestInsertRowAtEdges(t *testing.T) {
	v := tallTable(t)
	top, err := v.InsertRow(0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"n2", "n3"},
		{"g", "a"},
		{"g", "b"},
		{"c", "d"},
	}, grid(top))

	bottom, err := v.InsertRow(3)
	require.NoError(t, err)
	assert.Equal(t, 4, bottom.Layout().RowCount())
	assert.Equal(t, "g", bottom.Layout().CellFromPosition(0, 0).Key)

	_, err = v.InsertRow(4)
	assert.ErrorIs(t, err, table.ErrOutOfRange)
}

func TestDeleteRowShrinksSpanningCells(t *testing.T) {
	v := tallTable(t)
	next, err := v.DeleteRow(0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"g", "b"},
		{"c", "d"},
	}, grid(next))
	g, _ := next.Cell("g")
	assert.Equal(t, 1, g.RowSpan)
	assert.Equal(t, []string{"r1", "r2"}, rowKeys(next))
}

func TestDeleteRowRemovesContainedCells(t *testing.T) {
	v := tallTable(t)
	next, err := v.DeleteRow(2)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"g", "a"},
		{"g", "b"},
	}, grid(next))
	_, ok := next.Cell("c")
	assert.False(t, ok)
}

func TestDeleteLastRowOrColumn(t *testing.T) {
	v, err := table.New[text](1, 2, table.SequentialKeys("k"))
	require.NoError(t, err)
	_, err = v.DeleteRow(0)
	assert.ErrorIs(t, err, table.ErrLastRow)

	v, err = v.DeleteColumn(0)
	require.NoError(t, err)
	_, err = v.DeleteColumn(0)
	assert.ErrorIs(t, err, table.ErrLastColumn)
	_, err = v.DeleteColumn(1)
	assert.ErrorIs(t, err, table.ErrOutOfRange)
}

func TestInsertColumnGrowsSpanningCells(t *testing.T) {
	v := wideHeader(t)
	next, err := v.InsertColumn(1)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"h", "h", "h", "x"},
		{"a", "k1", "b", "y"},
		{"d", "k2", "e", "z"},
	}, grid(next))
	h, _ := next.Cell("h")
	assert.Equal(t, 3, h.ColumnSpan)
}

func TestInsertColumnAppends(t *testing.T) {
	v := tallTable(t)
	next, err := v.InsertColumn(2)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"g", "a", "n1"},
		{"g", "b", "n2"},
		{"c", "d", "n3"},
	}, grid(next))
}

func TestInsertColumnBesideVerticalSpan(t *testing.T) {
	v := tallTable(t)
	next, err := v.InsertColumn(0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"n1", "g", "a"},
		{"n2", "g", "b"},
		{"n3", "c", "d"},
	}, grid(next))
}

func TestDeleteColumn(t *testing.T) {
	v := wideHeader(t)
	next, err := v.DeleteColumn(0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"h", "x"},
		{"b", "y"},
		{"e", "z"},
	}, grid(next))
	h, _ := next.Cell("h")
	assert.Equal(t, 1, h.ColumnSpan)
}

func TestSelectionSurvivesInsertion(t *testing.T) {
	v, err := wideHeader(t).WithFocusedCell("e", false)
	require.NoError(t, err)
	v, err = v.WithFocusedCell("b", true)
	require.NoError(t, err)

	next, err := v.InsertRow(0)
	require.NoError(t, err)
	sel := next.Selection()
	assert.Equal(t, "b", sel.FocusedCellKey())
	assert.Equal(t, "e", sel.AnchorCellKey())
	assert.Equal(t, 2, sel.MinRow())
	assert.Equal(t, 3, sel.MaxRow())
}

func TestSelectionReanchorsOnDeletion(t *testing.T) {
	v, err := wideHeader(t).WithFocusedCell("a", false)
	require.NoError(t, err)
	v, err = v.WithFocusedCell("y", true)
	require.NoError(t, err)

	// deleting row 1 removes both a and y; the cells that move into
	// their slots take over
	next, err := v.DeleteRow(1)
	require.NoError(t, err)
	assert.Equal(t, "z", next.Selection().FocusedCellKey())
	assert.Equal(t, "d", next.Selection().AnchorCellKey())

	// deleting the last row clamps into the grid
	v, err = wideHeader(t).WithFocusedCell("z", false)
	require.NoError(t, err)
	next, err = v.DeleteRow(2)
	require.NoError(t, err)
	assert.Equal(t, "y", next.Selection().FocusedCellKey())

	// deleting the last column clamps as well
	next, err = v.DeleteColumn(2)
	require.NoError(t, err)
	assert.Equal(t, "e", next.Selection().FocusedCellKey())
}

func rowKeys(v table.Value[text]) []string {
	var out []string
	for _, r := range v.Rows() {
		out = append(out, r.Key)
	}
	return out
}
