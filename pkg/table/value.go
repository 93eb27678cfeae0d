package table

import (
	"fmt"
	"slices"

	"github.com/japaniel/paradigm/pkg/layout"
)

// Cell is one table cell. Header cells carry display text in their data;
// other cells carry the table's payload, e.g. an inflection pattern.
// A zero span means 1.
type Cell[D any] struct {
	Key        string
	RowSpan    int
	ColumnSpan int
	Header     bool
	Data       D
}

// Row is a declared row: the cells that start in it, left to right.
type Row[D any] struct {
	Key   string
	Cells []Cell[D]
}

// Value is an immutable table: rows, their layout and a selection.
// The zero Value is not usable; build one with New or FromRows.
type Value[D any] struct {
	rows   []Row[D]
	layout *layout.Layout
	sel    Selection
	keys   KeyFunc
}

// New returns a rowCount x colCount table of empty single-slot cells with
// the top-left cell focused.
func New[D any](rowCount, colCount int, keys KeyFunc) (Value[D], error) {
	if rowCount < 1 || colCount < 1 {
		return Value[D]{}, ErrEmptyTable
	}
	rows := make([]Row[D], rowCount)
	for r := range rows {
		rows[r].Key = keys()
		rows[r].Cells = make([]Cell[D], colCount)
		for c := range rows[r].Cells {
			rows[r].Cells[c] = Cell[D]{Key: keys(), RowSpan: 1, ColumnSpan: 1}
		}
	}
	return FromRows(rows, keys)
}

// FromRows builds a Value from declared rows. Rows and cells without a key
// are given one. The top-left cell is focused.
func FromRows[D any](rows []Row[D], keys KeyFunc) (Value[D], error) {
	rows = cloneRows(rows)
	for r := range rows {
		if rows[r].Key == "" {
			rows[r].Key = keys()
		}
		for c := range rows[r].Cells {
			if rows[r].Cells[c].Key == "" {
				rows[r].Cells[c].Key = keys()
			}
		}
	}
	l, err := layout.Build(layoutRows(rows))
	if err != nil {
		return Value[D]{}, err
	}
	if l.RowCount() == 0 || l.ColCount() == 0 {
		return Value[D]{}, ErrEmptyTable
	}
	first := l.CellFromPosition(0, 0).Key
	sel, err := newSelection(l, first, first)
	if err != nil {
		return Value[D]{}, err
	}
	return Value[D]{rows: rows, layout: l, sel: sel, keys: keys}, nil
}

func layoutRows[D any](rows []Row[D]) []layout.Row {
	out := make([]layout.Row, len(rows))
	for r, row := range rows {
		out[r].Key = row.Key
		out[r].Cells = make([]layout.Cell, len(row.Cells))
		for c, cell := range row.Cells {
			out[r].Cells[c] = layout.Cell{Key: cell.Key, RowSpan: cell.RowSpan, ColumnSpan: cell.ColumnSpan}
		}
	}
	return out
}

func cloneRows[D any](rows []Row[D]) []Row[D] {
	out := make([]Row[D], len(rows))
	for i, row := range rows {
		out[i] = Row[D]{Key: row.Key, Cells: slices.Clone(row.Cells)}
	}
	return out
}

// Rows returns the declared rows. The result must not be modified.
func (v Value[D]) Rows() []Row[D] { return v.rows }

// Layout returns the grid derived from the rows.
func (v Value[D]) Layout() *layout.Layout { return v.layout }

// Selection returns the current selection.
func (v Value[D]) Selection() Selection { return v.sel }

// Cell returns the cell with the given key.
func (v Value[D]) Cell(key string) (Cell[D], bool) {
	d, ok := v.layout.CellFromKey(key)
	if !ok {
		return Cell[D]{}, false
	}
	return v.rows[d.Row].Cells[d.IndexInRow], true
}

// FocusedCell returns the focused cell.
func (v Value[D]) FocusedCell() Cell[D] {
	c, _ := v.Cell(v.sel.focus)
	return c
}

// CellAt returns the cell covering grid slot (row, col).
func (v Value[D]) CellAt(row, col int) (Cell[D], bool) {
	d := v.layout.CellFromPosition(row, col)
	if d == nil {
		return Cell[D]{}, false
	}
	return v.rows[d.Row].Cells[d.IndexInRow], true
}

// SelectedCells returns the distinct cells intersecting the selection.
func (v Value[D]) SelectedCells() []Cell[D] {
	s := v.sel
	descs := v.layout.CellsIn(s.minRow, s.maxRow, s.minCol, s.maxCol)
	out := make([]Cell[D], len(descs))
	for i, d := range descs {
		out[i] = v.rows[d.Row].Cells[d.IndexInRow]
	}
	return out
}

// WithFocusedCell focuses key. Without extend the selection collapses onto
// key; with extend the anchor is kept and the selection spans both cells.
func (v Value[D]) WithFocusedCell(key string, extend bool) (Value[D], error) {
	anchor := key
	if extend {
		anchor = v.sel.anchor
	}
	sel, err := newSelection(v.layout, key, anchor)
	if err != nil {
		return v, err
	}
	v.sel = sel
	return v, nil
}

// withRows returns a Value over rows, re-resolving the selection against the
// new layout. Selected keys that no longer exist fall back to the cell now at
// their old top-left slot.
func (v Value[D]) withRows(rows []Row[D]) (Value[D], error) {
	l, err := layout.Build(layoutRows(rows))
	if err != nil {
		return v, fmt.Errorf("rebuild layout: %w", err)
	}
	focus := reanchor(v.layout, l, v.sel.focus)
	anchor := reanchor(v.layout, l, v.sel.anchor)
	sel, err := newSelection(l, focus, anchor)
	if err != nil {
		return v, err
	}
	return Value[D]{rows: rows, layout: l, sel: sel, keys: v.keys}, nil
}

func reanchor(prev, next *layout.Layout, key string) string {
	if _, ok := next.CellFromKey(key); ok {
		return key
	}
	old, _ := prev.CellFromKey(key)
	row := min(old.Row, next.RowCount()-1)
	col := min(old.Col, next.ColCount()-1)
	return next.CellFromPosition(row, col).Key
}
