package inflection

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/paradigm/pkg/table"
)

// NewTableValue builds an editable table from its wire shape.
func NewTableValue(rows []RowInput, keys table.KeyFunc) (table.Value[CellData], error) {
	trows := make([]table.Row[CellData], len(rows))
	for r, row := range rows {
		trows[r].Key = keys()
		trows[r].Cells = make([]table.Cell[CellData], len(row.Cells))
		for c, in := range row.Cells {
			cell := table.Cell[CellData]{
				Key:        keys(),
				RowSpan:    in.RowSpan,
				ColumnSpan: in.ColumnSpan,
			}
			switch {
			case in.HeaderText != nil:
				cell.Header = true
				cell.Data.Text = *in.HeaderText
			case in.InflectedForm != nil:
				f := in.InflectedForm
				cell.Data = CellData{
					Text:                 f.InflectionPattern,
					DeriveLemma:          f.DeriveLemma,
					DisplayName:          f.DisplayName,
					HasCustomDisplayName: f.HasCustomDisplayName,
				}
				if f.ID != nil {
					cell.Data.InflectedFormID = *f.ID
				}
			default:
				return table.Value[CellData]{}, &InputError{Row: r, Cell: c, Msg: "cell must have header text or an inflected form"}
			}
			trows[r].Cells[c] = cell
		}
	}
	return table.FromRows(trows, keys)
}

// ToInput projects a table onto its wire shape.
func ToInput(v table.Value[CellData]) []RowInput {
	rows := v.Rows()
	out := make([]RowInput, len(rows))
	for r, row := range rows {
		out[r].Cells = make([]CellInput, len(row.Cells))
		for c, cell := range row.Cells {
			in := CellInput{
				RowSpan:    compactSpan(cell.RowSpan),
				ColumnSpan: compactSpan(cell.ColumnSpan),
			}
			if cell.Header {
				text := cell.Data.Text
				in.HeaderText = &text
			} else {
				form := &InflectedFormInput{
					InflectionPattern:    cell.Data.Text,
					DeriveLemma:          cell.Data.DeriveLemma,
					DisplayName:          cell.Data.DisplayName,
					HasCustomDisplayName: cell.Data.HasCustomDisplayName,
				}
				if id := cell.Data.InflectedFormID; id != 0 {
					form.ID = &id
				}
				in.InflectedForm = form
			}
			out[r].Cells[c] = in
		}
	}
	return out
}

// ReadDefinition decodes a table definition. YAML is a superset of JSON, so
// both formats are accepted.
func ReadDefinition(r io.Reader) (*Definition, error) {
	var def Definition
	if err := yaml.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("decode table definition: %w", err)
	}
	return &def, nil
}

// WriteDefinition encodes a table definition as YAML.
func WriteDefinition(w io.Writer, def *Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("encode table definition: %w", err)
	}
	return enc.Close()
}

// WithFormIDs copies the form ids of a saved layout onto v, so a table kept
// open after saving refers to the forms that now exist. Header cells lose
// any id they still carry, since saving deleted those forms. stored must be
// the layout saved for ToInput(v).
func WithFormIDs(v table.Value[CellData], stored []StoredRow) (table.Value[CellData], error) {
	rows := v.Rows()
	if len(rows) != len(stored) {
		return v, fmt.Errorf("saved layout has %d rows, table has %d", len(stored), len(rows))
	}
	for r, row := range rows {
		if len(row.Cells) != len(stored[r].Cells) {
			return v, fmt.Errorf("saved row %d has %d cells, table has %d", r+1, len(stored[r].Cells), len(row.Cells))
		}
		for c, cell := range row.Cells {
			data := cell.Data
			switch id := stored[r].Cells[c].InflectedFormID; {
			case cell.Header:
				data.InflectedFormID = 0
			case id != nil:
				data.InflectedFormID = *id
			}
			if data.InflectedFormID == cell.Data.InflectedFormID {
				continue
			}
			var err error
			if v, err = v.SetCellData(cell.Key, data); err != nil {
				return v, err
			}
		}
	}
	return v, nil
}
