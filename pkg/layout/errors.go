package layout

import "errors"

var (
	// ErrInvalidSpan indicates a negative row or column span.
	ErrInvalidSpan = errors.New("layout: spans must be positive")
	// ErrDuplicateKey indicates two cells share a key.
	ErrDuplicateKey = errors.New("layout: duplicate cell key")
	// ErrOverflow indicates a cell extends past the last row or column.
	ErrOverflow = errors.New("layout: cell extends outside the grid")
	// ErrCollision indicates a cell overlaps a slot already filled by another cell.
	ErrCollision = errors.New("layout: cell overlaps another cell")
	// ErrIncomplete indicates the cells do not tile the grid.
	ErrIncomplete = errors.New("layout: grid has unfilled slots")
)
