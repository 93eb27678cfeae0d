package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/paradigm/pkg/table"
)

var allDeltas = []table.Delta{table.First, table.Prev, table.None, table.Next, table.Last}

func TestMoveSingleCell(t *testing.T) {
	v, err := table.New[text](1, 1, table.SequentialKeys("k"))
	require.NoError(t, err)
	only := v.Selection().FocusedCellKey()
	for _, dr := range allDeltas {
		for _, dc := range allDeltas {
			next, err := table.Move(v, dr, dc, false)
			require.NoError(t, err)
			assert.Equal(t, only, next.Selection().FocusedCellKey(), "move %v,%v", dr, dc)
		}
	}
}

func TestMoveStepsPastSpan(t *testing.T) {
	v := wideHeader(t)
	next, err := table.Move(v, table.None, table.Next, false)
	require.NoError(t, err)
	assert.Equal(t, "x", next.Selection().FocusedCellKey())

	d, _ := next.Layout().CellFromKey("x")
	assert.Equal(t, 2, d.Col)
}

func TestMove(t *testing.T) {
	cases := []struct {
		name       string
		from       string
		dRow, dCol table.Delta
		want       string
	}{
		{"Down", "h", table.Next, table.None, "a"},
		{"DownFromWide", "x", table.Next, table.None, "y"},
		{"UpIntoMerged", "b", table.Prev, table.None, "h"},
		{"LeftClamps", "a", table.None, table.Prev, "a"},
		{"RightClamps", "z", table.None, table.Next, "z"},
		{"DownClamps", "e", table.Next, table.None, "e"},
		{"FirstRow", "z", table.First, table.None, "x"},
		{"LastRow", "h", table.Last, table.None, "d"},
		{"FirstColumn", "z", table.None, table.First, "d"},
		{"LastColumn", "a", table.None, table.Last, "y"},
		{"Corner", "a", table.Last, table.Last, "z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := wideHeader(t).WithFocusedCell(tc.from, false)
			require.NoError(t, err)
			next, err := table.Move(v, tc.dRow, tc.dCol, false)
			require.NoError(t, err)
			assert.Equal(t, tc.want, next.Selection().FocusedCellKey())
			assert.Equal(t, tc.want, next.Selection().AnchorCellKey())
		})
	}
}

func TestMoveExtend(t *testing.T) {
	v, err := wideHeader(t).WithFocusedCell("a", false)
	require.NoError(t, err)
	v, err = table.Move(v, table.Next, table.Next, true)
	require.NoError(t, err)
	sel := v.Selection()
	assert.Equal(t, "e", sel.FocusedCellKey())
	assert.Equal(t, "a", sel.AnchorCellKey())
	assert.Equal(t, 4, sel.Size())
}

func TestMoveUnknownDelta(t *testing.T) {
	v := wideHeader(t)
	_, err := table.Move(v, table.Delta(2), table.None, false)
	assert.ErrorIs(t, err, table.ErrUnknownDelta)
	_, err = table.Move(v, table.None, table.Delta(-7), false)
	assert.ErrorIs(t, err, table.ErrUnknownDelta)
}

func TestMoveLeavesOriginalUntouched(t *testing.T) {
	v := wideHeader(t)
	_, err := table.Move(v, table.Last, table.Last, false)
	require.NoError(t, err)
	assert.Equal(t, "h", v.Selection().FocusedCellKey())
}

func TestDeltaString(t *testing.T) {
	assert.Equal(t, "next", table.Next.String())
	assert.Equal(t, "Delta(3)", table.Delta(3).String())
}
