package inflection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/japaniel/paradigm/pkg/layout"
	"github.com/japaniel/paradigm/pkg/pattern"
)

// CellHandler persists or resolves the form of one data cell and returns
// its id. The form it receives is already normalized.
type CellHandler func(ctx context.Context, form InflectedFormInput) (int64, error)

// ValidatedLayout is the outcome of ValidateLayout.
type ValidatedLayout struct {
	Rows []StoredRow
	// Stems are the distinct stem names referenced by any pattern, sorted.
	Stems []string
}

// ValidateLayout checks a submitted table, collects the stems its patterns
// reference and hands every data cell to handle, in row then column order.
// Any error, whether from validation or from handle, aborts the whole pass
// and no layout is returned.
func ValidateLayout(ctx context.Context, rows []RowInput, handle CellHandler) (*ValidatedLayout, error) {
	if err := checkShape(rows); err != nil {
		return nil, err
	}

	stems := make(map[string]struct{})
	out := make([]StoredRow, len(rows))
	for r, row := range rows {
		out[r].Cells = make([]StoredCell, len(row.Cells))
		for c, cell := range row.Cells {
			stored := StoredCell{
				RowSpan:    compactSpan(cell.RowSpan),
				ColumnSpan: compactSpan(cell.ColumnSpan),
			}
			switch {
			case cell.HeaderText != nil:
				text := strings.TrimSpace(*cell.HeaderText)
				stored.HeaderText = &text
			default:
				form := NormalizeForm(*cell.InflectedForm)
				pattern.CollectStems(form.InflectionPattern, stems)
				id, err := handle(ctx, form)
				if err != nil {
					return nil, fmt.Errorf("row %d, cell %d: %w", r+1, c+1, err)
				}
				stored.InflectedFormID = &id
			}
			out[r].Cells[c] = stored
		}
	}
	return &ValidatedLayout{Rows: out, Stems: pattern.SortedNames(stems)}, nil
}

// checkShape rejects cells without exactly one payload and spans that do
// not tile a grid, before any cell is handed to the handler.
func checkShape(rows []RowInput) error {
	shape := make([]layout.Row, len(rows))
	for r, row := range rows {
		shape[r].Cells = make([]layout.Cell, len(row.Cells))
		for c, cell := range row.Cells {
			switch {
			case cell.HeaderText == nil && cell.InflectedForm == nil:
				return &InputError{Row: r, Cell: c, Msg: "cell must have header text or an inflected form"}
			case cell.HeaderText != nil && cell.InflectedForm != nil:
				return &InputError{Row: r, Cell: c, Msg: "cell cannot have both header text and an inflected form"}
			case cell.RowSpan < 0 || cell.ColumnSpan < 0:
				return &InputError{Row: r, Cell: c, Msg: "spans must be positive"}
			}
			shape[r].Cells[c] = layout.Cell{
				Key:        fmt.Sprintf("%d:%d", r, c),
				RowSpan:    cell.RowSpan,
				ColumnSpan: cell.ColumnSpan,
			}
		}
	}
	l, err := layout.Build(shape)
	if err != nil {
		return &InputError{Row: -1, Msg: err.Error()}
	}
	if l.RowCount() == 0 || l.ColCount() == 0 {
		return &InputError{Row: -1, Msg: "table must have at least one cell"}
	}
	return nil
}

func compactSpan(n int) int {
	if n == 1 {
		return 0
	}
	return n
}

// NormalizeForm trims the pattern and display name. A form without a custom
// display name is named after its pattern.
func NormalizeForm(form InflectedFormInput) InflectedFormInput {
	form.InflectionPattern = pattern.NormalizePattern(form.InflectionPattern)
	form.DisplayName = strings.TrimSpace(form.DisplayName)
	if !form.HasCustomDisplayName || form.DisplayName == "" {
		form.DisplayName = form.InflectionPattern
		form.HasCustomDisplayName = false
	}
	return form
}

// IsInputError reports whether err was caused by an invalid submission.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
