// Package layout resolves a sparse, span-aware row/cell declaration into a
// dense grid.
//
// Rows are declared in source order and list only the cells that start in
// them. A cell with RowSpan > 1 also occupies the same columns of the
// following rows, and those rows simply omit it. The column a cell lands in is
// derived: each cell takes the leftmost grid column that is still free after
// the earlier cells of its row and the vertical spans of earlier rows have
// been placed.
//
// Build is strict. Spans that overflow the grid, collide with another cell or
// leave holes are reported as errors rather than absorbed, because they mean
// the row data itself was constructed incorrectly.
package layout
