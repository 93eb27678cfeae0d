package table

import (
	"fmt"
	"math"
)

// Delta is a one-axis navigation step.
type Delta int

const (
	// First moves to index 0.
	First Delta = math.MinInt
	// Prev moves back one slot.
	Prev Delta = -1
	// None keeps the coordinate.
	None Delta = 0
	// Next moves just past the focused cell's span.
	Next Delta = 1
	// Last moves to the last index.
	Last Delta = math.MaxInt
)

func (d Delta) String() string {
	switch d {
	case First:
		return "first"
	case Prev:
		return "prev"
	case None:
		return "none"
	case Next:
		return "next"
	case Last:
		return "last"
	}
	return fmt.Sprintf("Delta(%d)", int(d))
}

func (d Delta) apply(current, span, maxIndex int) (int, error) {
	switch d {
	case First:
		return 0, nil
	case Prev:
		return max(current-1, 0), nil
	case None:
		return current, nil
	case Next:
		return min(current+span, maxIndex), nil
	case Last:
		return maxIndex, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownDelta, int(d))
}

// Move focuses the cell reached by stepping dRow and dCol from the focused
// cell. With extend set, the anchor stays put and the selection grows.
func Move[D any](v Value[D], dRow, dCol Delta, extend bool) (Value[D], error) {
	cell, ok := v.layout.CellFromKey(v.sel.focus)
	if !ok {
		return v, fmt.Errorf("%w: focused cell %q", ErrUnknownKey, v.sel.focus)
	}
	row, err := dRow.apply(cell.Row, cell.RowSpan, v.layout.RowCount()-1)
	if err != nil {
		return v, err
	}
	col, err := dCol.apply(cell.Col, cell.ColumnSpan, v.layout.ColCount()-1)
	if err != nil {
		return v, err
	}
	target := v.layout.CellFromPosition(row, col)
	return v.WithFocusedCell(target.Key, extend)
}
