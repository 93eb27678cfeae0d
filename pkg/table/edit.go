package table

import (
	"fmt"
	"slices"

	"github.com/japaniel/paradigm/pkg/layout"
)

// SetCellData replaces the data of the cell with the given key.
func (v Value[D]) SetCellData(key string, data D) (Value[D], error) {
	return v.updateCell(key, func(c *Cell[D]) { c.Data = data })
}

// SetCellHeader marks the cell with the given key as a header or data cell.
func (v Value[D]) SetCellHeader(key string, header bool) (Value[D], error) {
	return v.updateCell(key, func(c *Cell[D]) { c.Header = header })
}

func (v Value[D]) updateCell(key string, fn func(*Cell[D])) (Value[D], error) {
	d, ok := v.layout.CellFromKey(key)
	if !ok {
		return v, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	rows := slices.Clone(v.rows)
	cells := slices.Clone(rows[d.Row].Cells)
	fn(&cells[d.IndexInRow])
	rows[d.Row].Cells = cells
	// Spans are unchanged, so the layout and selection carry over.
	v.rows = rows
	return v, nil
}

// placed is a cell with its grid position. Edits that reshape the grid work
// on placed cells and then regroup them into rows.
type placed[D any] struct {
	cell     Cell[D]
	row, col int
}

func (p *placed[D]) rowSpan() int { return layout.Span(p.cell.RowSpan) }
func (p *placed[D]) colSpan() int { return layout.Span(p.cell.ColumnSpan) }

func (v Value[D]) placedCells() []placed[D] {
	out := make([]placed[D], 0, len(v.layout.Cells()))
	for _, d := range v.layout.Cells() {
		out = append(out, placed[D]{cell: v.rows[d.Row].Cells[d.IndexInRow], row: d.Row, col: d.Col})
	}
	return out
}

func (v Value[D]) rowKeys() []string {
	keys := make([]string, len(v.rows))
	for i, r := range v.rows {
		keys[i] = r.Key
	}
	return keys
}

func regroup[D any](cells []placed[D], rowKeys []string) []Row[D] {
	slices.SortFunc(cells, func(a, b placed[D]) int {
		if a.row != b.row {
			return a.row - b.row
		}
		return a.col - b.col
	})
	rows := make([]Row[D], len(rowKeys))
	for i, k := range rowKeys {
		rows[i].Key = k
	}
	for _, p := range cells {
		rows[p.row].Cells = append(rows[p.row].Cells, p.cell)
	}
	return rows
}

func (v Value[D]) blankCell() Cell[D] {
	return Cell[D]{Key: v.keys(), RowSpan: 1, ColumnSpan: 1}
}

// InsertRow inserts a row of empty cells before grid row at; at equal to the
// row count appends. Cells spanning across the insertion point grow by one
// row instead of receiving a new cell.
func (v Value[D]) InsertRow(at int) (Value[D], error) {
	if at < 0 || at > v.layout.RowCount() {
		return v, fmt.Errorf("%w: row %d", ErrOutOfRange, at)
	}
	rowKeys := slices.Insert(v.rowKeys(), at, v.keys())
	cells := v.placedCells()
	covered := make([]bool, v.layout.ColCount())
	for i := range cells {
		p := &cells[i]
		switch {
		case p.row >= at:
			p.row++
		case p.row+p.rowSpan() > at:
			p.cell.RowSpan = p.rowSpan() + 1
			for c := p.col; c < p.col+p.colSpan(); c++ {
				covered[c] = true
			}
		}
	}
	for c, skip := range covered {
		if !skip {
			cells = append(cells, placed[D]{cell: v.blankCell(), row: at, col: c})
		}
	}
	return v.withRows(regroup(cells, rowKeys))
}

// DeleteRow removes grid row at. Cells spanning it shrink by one row; cells
// contained in it are removed.
func (v Value[D]) DeleteRow(at int) (Value[D], error) {
	if at < 0 || at >= v.layout.RowCount() {
		return v, fmt.Errorf("%w: row %d", ErrOutOfRange, at)
	}
	if v.layout.RowCount() == 1 {
		return v, ErrLastRow
	}
	cells := make([]placed[D], 0, len(v.layout.Cells()))
	for _, p := range v.placedCells() {
		switch {
		case p.row <= at && at < p.row+p.rowSpan():
			if p.rowSpan() == 1 {
				continue
			}
			p.cell.RowSpan = p.rowSpan() - 1
		case p.row > at:
			p.row--
		}
		cells = append(cells, p)
	}
	rowKeys := slices.Delete(v.rowKeys(), at, at+1)
	return v.withRows(regroup(cells, rowKeys))
}

// InsertColumn inserts a column of empty cells before grid column at; at
// equal to the column count appends. Cells spanning across the insertion
// point grow by one column instead of receiving a new cell.
func (v Value[D]) InsertColumn(at int) (Value[D], error) {
	if at < 0 || at > v.layout.ColCount() {
		return v, fmt.Errorf("%w: column %d", ErrOutOfRange, at)
	}
	cells := v.placedCells()
	covered := make([]bool, v.layout.RowCount())
	for i := range cells {
		p := &cells[i]
		switch {
		case p.col >= at:
			p.col++
		case p.col+p.colSpan() > at:
			p.cell.ColumnSpan = p.colSpan() + 1
			for r := p.row; r < p.row+p.rowSpan(); r++ {
				covered[r] = true
			}
		}
	}
	for r, skip := range covered {
		if !skip {
			cells = append(cells, placed[D]{cell: v.blankCell(), row: r, col: at})
		}
	}
	return v.withRows(regroup(cells, v.rowKeys()))
}

// DeleteColumn removes grid column at. Cells spanning it shrink by one
// column; cells contained in it are removed.
func (v Value[D]) DeleteColumn(at int) (Value[D], error) {
	if at < 0 || at >= v.layout.ColCount() {
		return v, fmt.Errorf("%w: column %d", ErrOutOfRange, at)
	}
	if v.layout.ColCount() == 1 {
		return v, ErrLastColumn
	}
	cells := make([]placed[D], 0, len(v.layout.Cells()))
	for _, p := range v.placedCells() {
		switch {
		case p.col <= at && at < p.col+p.colSpan():
			if p.colSpan() == 1 {
				continue
			}
			p.cell.ColumnSpan = p.colSpan() - 1
		case p.col > at:
			p.col--
		}
		cells = append(cells, p)
	}
	return v.withRows(regroup(cells, v.rowKeys()))
}
