package table

import (
	"fmt"

	"github.com/japaniel/paradigm/pkg/layout"
)

// Selection is a rectangular selection between an anchor cell and the
// focused cell. The bounds are derived from the layout the selection was
// resolved against and cover both cells' full spans.
type Selection struct {
	focus  string
	anchor string

	minRow, maxRow int
	minCol, maxCol int
}

func newSelection(l *layout.Layout, focus, anchor string) (Selection, error) {
	f, ok := l.CellFromKey(focus)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownKey, focus)
	}
	a, ok := l.CellFromKey(anchor)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownKey, anchor)
	}
	return Selection{
		focus:  focus,
		anchor: anchor,
		minRow: min(f.Row, a.Row),
		maxRow: max(f.LastRow(), a.LastRow()),
		minCol: min(f.Col, a.Col),
		maxCol: max(f.LastCol(), a.LastCol()),
	}, nil
}

// FocusedCellKey returns the key of the focused cell.
func (s Selection) FocusedCellKey() string { return s.focus }

// AnchorCellKey returns the key of the fixed corner of the selection.
func (s Selection) AnchorCellKey() string { return s.anchor }

// MinRow returns the first grid row covered by the selection.
func (s Selection) MinRow() int { return s.minRow }

// MaxRow returns the last grid row covered by the selection.
func (s Selection) MaxRow() int { return s.maxRow }

// MinCol returns the first grid column covered by the selection.
func (s Selection) MinCol() int { return s.minCol }

// MaxCol returns the last grid column covered by the selection.
func (s Selection) MaxCol() int { return s.maxCol }

// Size is the number of grid slots covered by the selection. A single merged
// cell spanning several slots counts each slot.
func (s Selection) Size() int {
	return (s.maxRow - s.minRow + 1) * (s.maxCol - s.minCol + 1)
}

// Contains reports whether the grid slot (row, col) is selected.
func (s Selection) Contains(row, col int) bool {
	return row >= s.minRow && row <= s.maxRow && col >= s.minCol && col <= s.maxCol
}

// Describe returns a sentence for screen readers and status lines, e.g.
// "6 cells selected: row 2 through 4, column 1 through 2. ".
// A selection of a single slot has no description.
func (s Selection) Describe() string {
	size := s.Size()
	if size <= 1 {
		return ""
	}
	return fmt.Sprintf("%d cells selected: %s, %s. ",
		size,
		describeRange("row", s.minRow, s.maxRow),
		describeRange("column", s.minCol, s.maxCol),
	)
}

func describeRange(noun string, lo, hi int) string {
	if lo == hi {
		return fmt.Sprintf("%s %d", noun, lo+1)
	}
	return fmt.Sprintf("%s %d through %d", noun, lo+1, hi+1)
}
