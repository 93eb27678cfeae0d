package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/japaniel/paradigm/pkg/pattern"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// CreateOrGetLemma returns the existing lemma id or inserts a new lemma and returns its id.
// A non-empty reading or part of speech overwrites the stored one.
func CreateOrGetLemma(db DBExecutor, term, language, reading, pos string) (int64, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return 0, fmt.Errorf("term must be non-empty")
	}

	var id int64
	query := `INSERT INTO lemmas (term, language, reading, part_of_speech)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(term, language)
			  DO UPDATE SET
			    reading = COALESCE(NULLIF(excluded.reading, ''), lemmas.reading),
			    part_of_speech = COALESCE(NULLIF(excluded.part_of_speech, ''), lemmas.part_of_speech)
			  RETURNING id`

	err := db.QueryRow(query, trimmed, language, reading, pos).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert lemma: %w", err)
	}
	return id, nil
}

const lemmaColumns = `id, term, language, reading, part_of_speech, table_id`

func scanLemma(sc interface{ Scan(...interface{}) error }) (Lemma, error) {
	var l Lemma
	var reading, pos sql.NullString
	var tableID sql.NullInt64
	if err := sc.Scan(&l.ID, &l.Term, &l.Language, &reading, &pos, &tableID); err != nil {
		return Lemma{}, err
	}
	l.Reading = reading.String
	l.PartOfSpeech = pos.String
	l.TableID = tableID.Int64
	return l, nil
}

// GetLemma looks a lemma up by term and language.
func GetLemma(db DBExecutor, term, language string) (Lemma, error) {
	row := db.QueryRow(`SELECT `+lemmaColumns+` FROM lemmas WHERE term = ? AND language = ?`, strings.TrimSpace(term), language)
	l, err := scanLemma(row)
	if err == sql.ErrNoRows {
		return Lemma{}, fmt.Errorf("lemma %q: %w", term, ErrNotFound)
	}
	return l, err
}

// GetLemmasByTable returns the lemmas inflected by the given table, ordered by id.
func GetLemmasByTable(db DBExecutor, tableID int64) ([]Lemma, error) {
	rows, err := db.Query(`SELECT `+lemmaColumns+` FROM lemmas WHERE table_id = ? ORDER BY id`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Lemma
	for rows.Next() {
		l, err := scanLemma(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignLemmaTable attaches a lemma to an inflection table. A tableID of 0 detaches it.
func AssignLemmaTable(db DBExecutor, lemmaID, tableID int64) error {
	if lemmaID <= 0 {
		return fmt.Errorf("lemmaID must be positive")
	}
	_, err := db.Exec(`UPDATE lemmas SET table_id = ? WHERE id = ?`, nullableInt64(tableID), lemmaID)
	return err
}

// SetLemmaStems replaces every stem of a lemma. Names are normalized first.
func SetLemmaStems(db DBExecutor, lemmaID int64, stems map[string]string) error {
	if lemmaID <= 0 {
		return fmt.Errorf("lemmaID must be positive")
	}
	normalized := make(map[string]string, len(stems))
	for name, value := range stems {
		n := pattern.NormalizeStemName(name)
		if !pattern.ValidStemName(n) {
			return fmt.Errorf("invalid stem name %q", name)
		}
		normalized[n] = value
	}
	if _, err := db.Exec(`DELETE FROM lemma_stems WHERE lemma_id = ?`, lemmaID); err != nil {
		return fmt.Errorf("clear stems: %w", err)
	}
	for name, value := range normalized {
		if _, err := db.Exec(`INSERT INTO lemma_stems (lemma_id, name, value) VALUES (?, ?, ?)`, lemmaID, name, value); err != nil {
			return fmt.Errorf("insert stem %q: %w", name, err)
		}
	}
	return nil
}

// GetLemmaStems returns the stems of a lemma keyed by name.
func GetLemmaStems(db DBExecutor, lemmaID int64) (map[string]string, error) {
	rows, err := db.Query(`SELECT name, value FROM lemma_stems WHERE lemma_id = ?`, lemmaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, rows.Err()
}

// CreateOrGetTable returns the existing table id or inserts a new, empty table and returns its id.
func CreateOrGetTable(db DBExecutor, name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("table name must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(`SELECT id FROM inflection_tables WHERE name = ?`, trimmed).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}

		res, err := db.Exec(`INSERT INTO inflection_tables (name, updated_at) VALUES (?, ?)`, trimmed, time.Now())
		if err != nil {
			// If another concurrent transaction inserted the same table, retry the SELECT.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get table after %d retries", maxRetries)
}

// GetTable looks a table up by name.
func GetTable(db DBExecutor, name string) (InflectionTable, error) {
	var t InflectionTable
	var updated sql.NullTime
	err := db.QueryRow(`SELECT id, name, layout, stems, updated_at FROM inflection_tables WHERE name = ?`, strings.TrimSpace(name)).
		Scan(&t.ID, &t.Name, &t.Layout, &t.Stems, &updated)
	if err == sql.ErrNoRows {
		return InflectionTable{}, fmt.Errorf("table %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return InflectionTable{}, err
	}
	t.UpdatedAt = updated.Time
	return t, nil
}

// UpdateTableLayout stores the validated layout and stem list of a table.
func UpdateTableLayout(db DBExecutor, tableID int64, layoutJSON, stemsJSON string) error {
	if tableID <= 0 {
		return fmt.Errorf("tableID must be positive")
	}
	_, err := db.Exec(`UPDATE inflection_tables SET layout = ?, stems = ?, updated_at = ? WHERE id = ?`,
		layoutJSON, stemsJSON, time.Now(), tableID)
	return err
}

// UpsertInflectedForm updates the form with f.ID, or inserts a new form when f.ID is 0.
// Updating a form that belongs to another table is an error.
func UpsertInflectedForm(db DBExecutor, tableID int64, f InflectedForm) (int64, error) {
	if tableID <= 0 {
		return 0, fmt.Errorf("tableID must be positive")
	}
	if f.ID == 0 {
		res, err := db.Exec(`INSERT INTO inflected_forms (table_id, inflection_pattern, derive_lemma, display_name, has_custom_display_name)
			VALUES (?, ?, ?, ?, ?)`, tableID, f.InflectionPattern, f.DeriveLemma, f.DisplayName, f.HasCustomDisplayName)
		if err != nil {
			return 0, fmt.Errorf("insert inflected form: %w", err)
		}
		return res.LastInsertId()
	}

	res, err := db.Exec(`UPDATE inflected_forms
		SET inflection_pattern = ?, derive_lemma = ?, display_name = ?, has_custom_display_name = ?
		WHERE id = ? AND table_id = ?`,
		f.InflectionPattern, f.DeriveLemma, f.DisplayName, f.HasCustomDisplayName, f.ID, tableID)
	if err != nil {
		return 0, fmt.Errorf("update inflected form %d: %w", f.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("inflected form %d in table %d: %w", f.ID, tableID, ErrNotFound)
	}
	return f.ID, nil
}

// GetInflectedForms returns the forms of a table ordered by id.
func GetInflectedForms(db DBExecutor, tableID int64) ([]InflectedForm, error) {
	rows, err := db.Query(`SELECT id, table_id, inflection_pattern, derive_lemma, display_name, has_custom_display_name
		FROM inflected_forms WHERE table_id = ? ORDER BY id`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InflectedForm
	for rows.Next() {
		var f InflectedForm
		if err := rows.Scan(&f.ID, &f.TableID, &f.InflectionPattern, &f.DeriveLemma, &f.DisplayName, &f.HasCustomDisplayName); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteFormsExcept removes the forms of a table whose ids are not in keep,
// together with every form derived from them. It returns the number of forms removed.
func DeleteFormsExcept(db DBExecutor, tableID int64, keep []int64) (int64, error) {
	where := `table_id = ?`
	args := []interface{}{tableID}
	if len(keep) > 0 {
		where += ` AND id NOT IN (?` + strings.Repeat(`, ?`, len(keep)-1) + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}
	if _, err := db.Exec(`DELETE FROM derived_forms WHERE inflected_form_id IN (SELECT id FROM inflected_forms WHERE `+where+`)`, args...); err != nil {
		return 0, fmt.Errorf("delete derived forms: %w", err)
	}
	res, err := db.Exec(`DELETE FROM inflected_forms WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete inflected forms: %w", err)
	}
	return res.RowsAffected()
}

// ReplaceDerivedForms replaces every derived form of a lemma.
func ReplaceDerivedForms(db DBExecutor, lemmaID int64, forms []DerivedForm) error {
	if lemmaID <= 0 {
		return fmt.Errorf("lemmaID must be positive")
	}
	if _, err := db.Exec(`DELETE FROM derived_forms WHERE lemma_id = ?`, lemmaID); err != nil {
		return fmt.Errorf("clear derived forms: %w", err)
	}
	for _, f := range forms {
		if _, err := db.Exec(`INSERT INTO derived_forms (lemma_id, inflected_form_id, text) VALUES (?, ?, ?)`,
			lemmaID, f.InflectedFormID, f.Text); err != nil {
			return fmt.Errorf("insert derived form %d: %w", f.InflectedFormID, err)
		}
	}
	return nil
}

// GetDerivedForms returns the derived forms of a lemma in table order.
func GetDerivedForms(db DBExecutor, lemmaID int64) ([]DerivedForm, error) {
	rows, err := db.Query(`SELECT d.lemma_id, d.inflected_form_id, f.display_name, d.text
		FROM derived_forms d JOIN inflected_forms f ON f.id = d.inflected_form_id
		WHERE d.lemma_id = ? ORDER BY d.inflected_form_id`, lemmaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DerivedForm
	for rows.Next() {
		var f DerivedForm
		if err := rows.Scan(&f.LemmaID, &f.InflectedFormID, &f.DisplayName, &f.Text); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// nullableInt64 returns nil for 0 (meaning no reference) else the value.
func nullableInt64(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
