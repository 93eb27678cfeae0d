// Package inflection defines inflection tables as they cross the boundary
// between the editor and storage, and validates them on save.
package inflection

import "fmt"

// RowInput is one submitted table row.
type RowInput struct {
	Cells []CellInput `json:"cells" yaml:"cells"`
}

// CellInput is one submitted cell. Exactly one of HeaderText and
// InflectedForm must be set. Spans of 0 or 1 are omitted on the wire.
type CellInput struct {
	RowSpan       int                 `json:"rowSpan,omitempty" yaml:"rowSpan,omitempty"`
	ColumnSpan    int                 `json:"columnSpan,omitempty" yaml:"columnSpan,omitempty"`
	HeaderText    *string             `json:"headerText,omitempty" yaml:"headerText,omitempty"`
	InflectedForm *InflectedFormInput `json:"inflectedForm,omitempty" yaml:"inflectedForm,omitempty"`
}

// InflectedFormInput is the payload of a data cell. ID is set when the cell
// refers to a form that already exists.
type InflectedFormInput struct {
	ID                   *int64 `json:"id,omitempty" yaml:"id,omitempty"`
	InflectionPattern    string `json:"inflectionPattern" yaml:"inflectionPattern"`
	DeriveLemma          bool   `json:"deriveLemma" yaml:"deriveLemma"`
	DisplayName          string `json:"displayName" yaml:"displayName"`
	HasCustomDisplayName bool   `json:"hasCustomDisplayName" yaml:"hasCustomDisplayName"`
}

// Definition is the document stored in table definition files.
type Definition struct {
	Rows []RowInput `json:"rows" yaml:"rows"`
}

// StoredRow is a row of the persisted, validated layout.
type StoredRow struct {
	Cells []StoredCell `json:"cells"`
}

// StoredCell is a persisted cell. Data cells keep only the id of their
// inflected form; spans equal to 1 are left out.
type StoredCell struct {
	RowSpan         int     `json:"rowSpan,omitempty"`
	ColumnSpan      int     `json:"columnSpan,omitempty"`
	HeaderText      *string `json:"headerText,omitempty"`
	InflectedFormID *int64  `json:"inflectedFormId,omitempty"`
}

// CellData is the editor payload of an inflection table cell. For header
// cells Text is the header; for data cells it is the inflection pattern.
type CellData struct {
	Text                 string
	DeriveLemma          bool
	DisplayName          string
	HasCustomDisplayName bool
	// InflectedFormID is 0 for forms that have not been saved yet.
	InflectedFormID int64
}

// InputError reports a submitted table that cannot be saved.
type InputError struct {
	Row  int
	Cell int
	Msg  string
}

func (e *InputError) Error() string {
	if e.Row < 0 {
		return "invalid table layout: " + e.Msg
	}
	return fmt.Sprintf("invalid table layout: row %d, cell %d: %s", e.Row+1, e.Cell+1, e.Msg)
}
