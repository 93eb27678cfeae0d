package layout_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/paradigm/pkg/layout"
)

func cell(key string, rs, cs int) layout.Cell {
	return layout.Cell{Key: key, RowSpan: rs, ColumnSpan: cs}
}

// nounTable is a typical declension table:
//
//	+----+-----+-----+
//	|    | sg  | pl  |
//	+----+-----+-----+
//	| nom| a   | b   |
//	+----+-----+-----+
//	| gen| c   | d   |
//	+    +-----+-----+
//	|    | e (2 cols)|
//	+----+-----+-----+
func nounTable() []layout.Row {
	return []layout.Row{
		{Key: "r0", Cells: []layout.Cell{cell("corner", 1, 1), cell("sg", 1, 1), cell("pl", 1, 1)}},
		{Key: "r1", Cells: []layout.Cell{cell("nom", 1, 1), cell("a", 1, 1), cell("b", 1, 1)}},
		{Key: "r2", Cells: []layout.Cell{cell("gen", 2, 1), cell("c", 1, 1), cell("d", 1, 1)}},
		{Key: "r3", Cells: []layout.Cell{cell("e", 1, 2)}},
	}
}

func TestBuild_Dimensions(t *testing.T) {
	l, err := layout.Build(nounTable())
	require.NoError(t, err)
	assert.Equal(t, 4, l.RowCount())
	assert.Equal(t, 3, l.ColCount())
	assert.Len(t, l.Cells(), 11)
}

func TestBuild_Placement(t *testing.T) {
	l, err := layout.Build(nounTable())
	require.NoError(t, err)

	e, ok := l.CellFromKey("e")
	require.True(t, ok)
	assert.Equal(t, 3, e.Row)
	assert.Equal(t, 1, e.Col, "e must skip the slot covered by gen")
	assert.Equal(t, 0, e.IndexInRow)
	assert.Equal(t, 2, e.ColumnSpan)

	gen, ok := l.CellFromKey("gen")
	require.True(t, ok)
	assert.Same(t, gen, l.CellFromPosition(2, 0))
	assert.Same(t, gen, l.CellFromPosition(3, 0))
	assert.Same(t, e, l.CellFromPosition(3, 1))
	assert.Same(t, e, l.CellFromPosition(3, 2))

	d, _ := l.CellFromKey("d")
	assert.Equal(t, 2, d.IndexInRow)
}

func TestBuild_EverySlotResolvesConsistently(t *testing.T) {
	l, err := layout.Build(nounTable())
	require.NoError(t, err)
	for r := 0; r < l.RowCount(); r++ {
		for c := 0; c < l.ColCount(); c++ {
			desc := l.CellFromPosition(r, c)
			require.NotNil(t, desc, "slot %d,%d", r, c)
			assert.True(t, desc.Contains(r, c))
			byKey, ok := l.CellFromKey(desc.Key)
			require.True(t, ok)
			assert.Same(t, desc, byKey)
		}
	}
}

func TestBuild_ZeroSpanMeansOne(t *testing.T) {
	l, err := layout.Build([]layout.Row{{Key: "r", Cells: []layout.Cell{{Key: "x"}, {Key: "y"}}}})
	require.NoError(t, err)
	assert.Equal(t, 1, l.RowCount())
	assert.Equal(t, 2, l.ColCount())
}

func TestBuild_Empty(t *testing.T) {
	l, err := layout.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, l.RowCount())
	assert.Nil(t, l.CellFromPosition(0, 0))
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name string
		rows []layout.Row
		err  error
	}{
		{"NegativeSpan", []layout.Row{{Cells: []layout.Cell{cell("a", -1, 1)}}}, layout.ErrInvalidSpan},
		{"RowSpanPastEnd", []layout.Row{{Cells: []layout.Cell{cell("a", 2, 1)}}}, layout.ErrOverflow},
		{"DuplicateKey", []layout.Row{{Cells: []layout.Cell{cell("a", 1, 1), cell("a", 1, 1)}}}, layout.ErrDuplicateKey},
		{"RaggedRows", []layout.Row{
			{Cells: []layout.Cell{cell("a", 1, 1), cell("b", 1, 1)}},
			{Cells: []layout.Cell{cell("c", 1, 1)}},
		}, layout.ErrIncomplete},
		{"ContinuationNotOmitted", []layout.Row{
			{Cells: []layout.Cell{cell("a", 2, 1), cell("b", 1, 1)}},
			{Cells: []layout.Cell{cell("c", 1, 2)}},
		}, layout.ErrIncomplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := layout.Build(tc.rows)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.err), "got %v, want %v", err, tc.err)
		})
	}
}

func TestBuild_Collision(t *testing.T) {
	// b spans down into row 1 column 1, but row 1 declares a wide cell that
	// starts at column 0 and needs column 1 as well.
	rows := []layout.Row{
		{Cells: []layout.Cell{cell("a", 1, 1), cell("b", 2, 1), cell("c", 1, 1)}},
		{Cells: []layout.Cell{cell("d", 1, 2)}},
	}
	_, err := layout.Build(rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, layout.ErrCollision)
}

func TestCellsIn(t *testing.T) {
	l, err := layout.Build(nounTable())
	require.NoError(t, err)

	keys := func(cells []*layout.CellLayout) []string {
		var out []string
		for _, c := range cells {
			out = append(out, c.Key)
		}
		return out
	}
	assert.Equal(t, []string{"gen", "c", "d", "e"}, keys(l.CellsIn(2, 3, 0, 2)))
	assert.Equal(t, []string{"gen"}, keys(l.CellsIn(3, 3, 0, 0)))
}
