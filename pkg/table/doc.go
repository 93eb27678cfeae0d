// Package table holds the editor-side table model: an immutable Value that
// owns its rows, the layout derived from them and the current selection.
//
// Every operation that changes a Value returns a new one and leaves the
// receiver untouched, so a Value can be read from any goroutine once built.
// Selections reference cells by key only. They survive row and column
// insertion unchanged; when a deletion removes a selected cell the selection
// is re-anchored on the cell that now occupies the removed cell's former
// top-left slot, clamped into the new grid.
package table
