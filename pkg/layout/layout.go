package layout

import "fmt"

// Cell is the part of a table cell the layout engine cares about.
// A zero span means 1.
type Cell struct {
	Key        string
	RowSpan    int
	ColumnSpan int
}

// Row is a declared table row: the cells that start in it, left to right.
type Row struct {
	Key   string
	Cells []Cell
}

// CellLayout describes where a cell ended up in the grid.
// Every grid slot the cell covers refers to the same *CellLayout.
type CellLayout struct {
	Key string
	// Row and Col are the grid coordinates of the top-left slot.
	Row int
	Col int
	// IndexInRow is the cell's index in its declaring row.
	IndexInRow int
	RowSpan    int
	ColumnSpan int
}

// LastRow returns the last grid row covered by the cell.
func (c *CellLayout) LastRow() int { return c.Row + c.RowSpan - 1 }

// LastCol returns the last grid column covered by the cell.
func (c *CellLayout) LastCol() int { return c.Col + c.ColumnSpan - 1 }

// Contains reports whether the slot (row, col) lies inside the cell.
func (c *CellLayout) Contains(row, col int) bool {
	return row >= c.Row && row <= c.LastRow() && col >= c.Col && col <= c.LastCol()
}

// Layout is the resolved grid. It is immutable once built.
type Layout struct {
	rowCount int
	colCount int
	grid     [][]*CellLayout
	byKey    map[string]*CellLayout
	// cells holds each descriptor once, in declaration order.
	cells []*CellLayout
}

// Span returns the effective value of a declared span.
func Span(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// Build lays out rows. It returns an error wrapping one of the package
// sentinels when the rows do not tile a rectangular grid.
func Build(rows []Row) (*Layout, error) {
	rowCount := len(rows)

	// Pass 1: the column width each row slot receives from every cell that
	// covers it, including vertical spans from earlier rows.
	widths := make([]int, rowCount)
	for r, row := range rows {
		for _, cell := range row.Cells {
			rs, cs := Span(cell.RowSpan), Span(cell.ColumnSpan)
			if rs < 1 || cs < 1 {
				return nil, fmt.Errorf("%w: cell %q has span %dx%d", ErrInvalidSpan, cell.Key, rs, cs)
			}
			if r+rs > rowCount {
				return nil, fmt.Errorf("%w: cell %q in row %d spans %d rows of %d", ErrOverflow, cell.Key, r, rs, rowCount)
			}
			for i := r; i < r+rs; i++ {
				widths[i] += cs
			}
		}
	}
	colCount := 0
	for _, w := range widths {
		if w > colCount {
			colCount = w
		}
	}

	l := &Layout{
		rowCount: rowCount,
		colCount: colCount,
		grid:     make([][]*CellLayout, rowCount),
		byKey:    make(map[string]*CellLayout),
	}
	for r := range l.grid {
		l.grid[r] = make([]*CellLayout, colCount)
	}

	// Pass 2: place cells.
	for r, row := range rows {
		col := 0
		for i, cell := range row.Cells {
			for col < colCount && l.grid[r][col] != nil {
				col++
			}
			desc := &CellLayout{
				Key:        cell.Key,
				Row:        r,
				Col:        col,
				IndexInRow: i,
				RowSpan:    Span(cell.RowSpan),
				ColumnSpan: Span(cell.ColumnSpan),
			}
			if desc.LastCol() >= colCount {
				return nil, fmt.Errorf("%w: cell %q at row %d, column %d spans %d columns of %d",
					ErrOverflow, cell.Key, r, col, desc.ColumnSpan, colCount)
			}
			if _, dup := l.byKey[cell.Key]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, cell.Key)
			}
			if err := l.stamp(desc); err != nil {
				return nil, err
			}
			l.byKey[cell.Key] = desc
			l.cells = append(l.cells, desc)
			col += desc.ColumnSpan
		}
	}

	for r := range l.grid {
		for c, slot := range l.grid[r] {
			if slot == nil {
				return nil, fmt.Errorf("%w: row %d, column %d", ErrIncomplete, r, c)
			}
		}
	}
	return l, nil
}

func (l *Layout) stamp(desc *CellLayout) error {
	for r := desc.Row; r <= desc.LastRow(); r++ {
		for c := desc.Col; c <= desc.LastCol(); c++ {
			if other := l.grid[r][c]; other != nil {
				return fmt.Errorf("%w: %q and %q at row %d, column %d", ErrCollision, desc.Key, other.Key, r, c)
			}
			l.grid[r][c] = desc
		}
	}
	return nil
}

// RowCount returns the number of grid rows.
func (l *Layout) RowCount() int { return l.rowCount }

// ColCount returns the number of grid columns.
func (l *Layout) ColCount() int { return l.colCount }

// CellFromKey returns the descriptor of the cell with the given key.
func (l *Layout) CellFromKey(key string) (*CellLayout, bool) {
	c, ok := l.byKey[key]
	return c, ok
}

// CellFromPosition returns the cell covering (row, col), or nil when the
// position is outside the grid.
func (l *Layout) CellFromPosition(row, col int) *CellLayout {
	if !l.InBounds(row, col) {
		return nil
	}
	return l.grid[row][col]
}

// InBounds reports whether (row, col) is a grid slot.
func (l *Layout) InBounds(row, col int) bool {
	return row >= 0 && row < l.rowCount && col >= 0 && col < l.colCount
}

// Cells returns every descriptor once, in declaration order.
// The returned slice must not be modified.
func (l *Layout) Cells() []*CellLayout { return l.cells }

// CellsIn returns the distinct cells that intersect the rectangle
// [minRow, maxRow] x [minCol, maxCol], in the order a row-by-row scan of the
// rectangle first meets them.
func (l *Layout) CellsIn(minRow, maxRow, minCol, maxCol int) []*CellLayout {
	var out []*CellLayout
	seen := make(map[*CellLayout]bool)
	for r := max(minRow, 0); r <= maxRow && r < l.rowCount; r++ {
		for c := max(minCol, 0); c <= maxCol && c < l.colCount; c++ {
			cell := l.grid[r][c]
			if seen[cell] {
				continue
			}
			seen[cell] = true
			out = append(out, cell)
		}
	}
	return out
}
