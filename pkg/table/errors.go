package table

import "errors"

var (
	// ErrEmptyTable indicates a table without a single cell.
	ErrEmptyTable = errors.New("table: a table needs at least one cell")
	// ErrUnknownKey indicates a cell key that is not part of the table.
	ErrUnknownKey = errors.New("table: unknown cell key")
	// ErrUnknownDelta indicates a navigation delta other than First, Prev, None, Next or Last.
	ErrUnknownDelta = errors.New("table: unknown navigation delta")
	// ErrOutOfRange indicates a row or column index outside the grid.
	ErrOutOfRange = errors.New("table: index out of range")
	// ErrLastRow indicates an attempt to delete the only row.
	ErrLastRow = errors.New("table: cannot delete the last row")
	// ErrLastColumn indicates an attempt to delete the only column.
	ErrLastColumn = errors.New("table: cannot delete the last column")
)
