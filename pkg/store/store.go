// Package store saves and loads inflection tables. A save validates the
// submitted layout and persists it together with its inflected forms in one
// transaction.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/japaniel/paradigm/pkg/db"
	"github.com/japaniel/paradigm/pkg/inflection"
)

// Saved describes a table after a successful save.
type Saved struct {
	TableID int64
	Rows    []inflection.StoredRow
	Stems   []string
	// Removed is the number of inflected forms no longer referenced by the
	// layout that were deleted.
	Removed int64
}

// SaveTable validates rows and stores them as the table called name,
// creating the table if needed. Each data cell is upserted as an inflected
// form; forms the new layout no longer references are deleted. Either
// everything is stored or nothing is.
func SaveTable(ctx context.Context, conn *sql.DB, name string, rows []inflection.RowInput) (*Saved, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	tableID, err := db.CreateOrGetTable(tx, name)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}

	var kept []int64
	handle := func(ctx context.Context, f inflection.InflectedFormInput) (int64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		form := db.InflectedForm{
			InflectionPattern:    f.InflectionPattern,
			DeriveLemma:          f.DeriveLemma,
			DisplayName:          f.DisplayName,
			HasCustomDisplayName: f.HasCustomDisplayName,
		}
		if f.ID != nil {
			form.ID = *f.ID
		}
		id, err := db.UpsertInflectedForm(tx, tableID, form)
		if err != nil {
			return 0, err
		}
		kept = append(kept, id)
		return id, nil
	}

	validated, err := inflection.ValidateLayout(ctx, rows, handle)
	if err != nil {
		return nil, err
	}

	removed, err := db.DeleteFormsExcept(tx, tableID, kept)
	if err != nil {
		return nil, err
	}

	layoutJSON, err := json.Marshal(validated.Rows)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	stemsJSON, err := json.Marshal(validated.Stems)
	if err != nil {
		return nil, fmt.Errorf("encode stems: %w", err)
	}
	if err := db.UpdateTableLayout(tx, tableID, string(layoutJSON), string(stemsJSON)); err != nil {
		return nil, fmt.Errorf("store layout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return &Saved{
		TableID: tableID,
		Rows:    validated.Rows,
		Stems:   validated.Stems,
		Removed: removed,
	}, nil
}

// Loaded is a stored table in its wire shape.
type Loaded struct {
	Table db.InflectionTable
	Rows  []inflection.RowInput
	Stems []string
}

// LoadTable reads the table called name and joins its layout with its
// inflected forms.
func LoadTable(conn db.DBExecutor, name string) (*Loaded, error) {
	t, err := db.GetTable(conn, name)
	if err != nil {
		return nil, err
	}
	var stored []inflection.StoredRow
	if err := json.Unmarshal([]byte(t.Layout), &stored); err != nil {
		return nil, fmt.Errorf("decode layout of %q: %w", name, err)
	}
	var stems []string
	if err := json.Unmarshal([]byte(t.Stems), &stems); err != nil {
		return nil, fmt.Errorf("decode stems of %q: %w", name, err)
	}

	forms, err := db.GetInflectedForms(conn, t.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]db.InflectedForm, len(forms))
	for _, f := range forms {
		byID[f.ID] = f
	}

	rows := make([]inflection.RowInput, len(stored))
	for r, row := range stored {
		rows[r].Cells = make([]inflection.CellInput, len(row.Cells))
		for c, cell := range row.Cells {
			in := inflection.CellInput{
				RowSpan:    cell.RowSpan,
				ColumnSpan: cell.ColumnSpan,
				HeaderText: cell.HeaderText,
			}
			if cell.InflectedFormID != nil {
				f, ok := byID[*cell.InflectedFormID]
				if !ok {
					return nil, fmt.Errorf("table %q row %d, cell %d: inflected form %d: %w",
						name, r+1, c+1, *cell.InflectedFormID, db.ErrNotFound)
				}
				id := f.ID
				in.InflectedForm = &inflection.InflectedFormInput{
					ID:                   &id,
					InflectionPattern:    f.InflectionPattern,
					DeriveLemma:          f.DeriveLemma,
					DisplayName:          f.DisplayName,
					HasCustomDisplayName: f.HasCustomDisplayName,
				}
			}
			rows[r].Cells[c] = in
		}
	}
	return &Loaded{Table: t, Rows: rows, Stems: stems}, nil
}
