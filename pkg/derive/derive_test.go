package derive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/paradigm/pkg/db"
	"github.com/japaniel/paradigm/pkg/pattern"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	t.Cleanup(func() { conn.Close() })
	return conn
}

// seedTable creates a table with a plural form, a derived-from-stem form and
// a form that is not derived from the lemma.
func seedTable(t *testing.T, conn *sql.DB) (tableID int64, formIDs []int64) {
	t.Helper()
	tableID, err := db.CreateOrGetTable(conn, "nouns")
	require.NoError(t, err)
	for _, f := range []db.InflectedForm{
		{InflectionPattern: "{~}s", DeriveLemma: true, DisplayName: "plural"},
		{InflectionPattern: "{root}en", DeriveLemma: true, DisplayName: "old plural"},
		{InflectionPattern: "n/a", DeriveLemma: false, DisplayName: "n/a"},
	} {
		id, err := db.UpsertInflectedForm(conn, tableID, f)
		require.NoError(t, err)
		formIDs = append(formIDs, id)
	}
	return tableID, formIDs
}

func addLemma(t *testing.T, conn *sql.DB, term string, tableID int64, stems map[string]string) int64 {
	t.Helper()
	id, err := db.CreateOrGetLemma(conn, term, "en", "", "noun")
	require.NoError(t, err)
	require.NoError(t, db.AssignLemmaTable(conn, id, tableID))
	if stems != nil {
		require.NoError(t, db.SetLemmaStems(conn, id, stems))
	}
	return id
}

func TestForms(t *testing.T) {
	forms := []db.InflectedForm{
		{ID: 1, InflectionPattern: "{~}s", DeriveLemma: true, DisplayName: "plural"},
		{ID: 2, InflectionPattern: "{root}en", DeriveLemma: true, DisplayName: "old"},
		{ID: 3, InflectionPattern: "ignored", DisplayName: "x"},
	}
	got := Forms("ox", pattern.StemMap{"root": "ox"}, forms)
	assert.Equal(t, []db.DerivedForm{
		{InflectedFormID: 1, DisplayName: "plural", Text: "oxs"},
		{InflectedFormID: 2, DisplayName: "old", Text: "oxen"},
	}, got)
}

func TestForms_MissingStemFallsBackToTerm(t *testing.T) {
	forms := []db.InflectedForm{{ID: 7, InflectionPattern: "{root}en", DeriveLemma: true}}
	got := Forms("ox", nil, forms)
	require.Len(t, got, 1)
	assert.Equal(t, "oxen", got[0].Text)
}

func TestRegenerate(t *testing.T) {
	conn := setupDB(t)
	tableID, formIDs := seedTable(t, conn)
	cat := addLemma(t, conn, "cat", tableID, nil)
	ox := addLemma(t, conn, "ox", tableID, map[string]string{"root": "ox"})
	// Attached to no table, so never touched.
	_ = addLemma(t, conn, "sheep", 0, nil)

	d := NewDeriver(conn)
	d.BatchSize = 1
	var progress []int
	d.OnProgress = func(current, total int) {
		assert.Equal(t, 2, total)
		progress = append(progress, current)
	}
	n, err := d.Regenerate(context.Background(), tableID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, progress)

	got, err := db.GetDerivedForms(conn, cat)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, formIDs[0], got[0].InflectedFormID)
	assert.Equal(t, "cats", got[0].Text)
	assert.Equal(t, "caten", got[1].Text)

	got, err = db.GetDerivedForms(conn, ox)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "oxs", got[0].Text)
	assert.Equal(t, "oxen", got[1].Text)
	assert.Equal(t, "old plural", got[1].DisplayName)
}

func TestRegenerate_ReplacesPreviousForms(t *testing.T) {
	conn := setupDB(t)
	tableID, formIDs := seedTable(t, conn)
	ox := addLemma(t, conn, "ox", tableID, map[string]string{"root": "ox"})

	_, err := NewDeriver(conn).Regenerate(context.Background(), tableID)
	require.NoError(t, err)

	_, err = db.UpsertInflectedForm(conn, tableID, db.InflectedForm{
		ID: formIDs[0], InflectionPattern: "{~}es", DeriveLemma: true, DisplayName: "plural",
	})
	require.NoError(t, err)
	_, err = NewDeriver(conn).Regenerate(context.Background(), tableID)
	require.NoError(t, err)

	got, err := db.GetDerivedForms(conn, ox)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "oxes", got[0].Text)
}

func TestRegenerate_NoLemmas(t *testing.T) {
	conn := setupDB(t)
	tableID, _ := seedTable(t, conn)
	n, err := NewDeriver(conn).Regenerate(context.Background(), tableID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// failingPool rejects every job to simulate a producer error.
type failingPool struct{}

func (f *failingPool) Start(ctx context.Context) {}
func (f *failingPool) SubmitCtx(ctx context.Context, job Job) error {
	return errors.New("submit failed")
}
func (f *failingPool) Close()     {}
func (f *failingPool) Err() error { return nil }

func TestRegenerate_SubmitErrorReturnsPromptly(t *testing.T) {
	conn := setupDB(t)
	tableID, _ := seedTable(t, conn)
	for _, term := range []string{"a", "b", "c"} {
		addLemma(t, conn, term, tableID, nil)
	}

	d := NewDeriver(conn)
	d.PoolFactory = func(workers, queue int) Pool { return &failingPool{} }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := d.Regenerate(ctx, tableID)
	require.Error(t, err)
	assert.Zero(t, n)
}

// erringPool runs jobs inline and keeps the first error, like a WorkerPool
// whose worker failed.
type erringPool struct {
	submitted int
	err       error
}

func (p *erringPool) Start(ctx context.Context) {}
func (p *erringPool) SubmitCtx(ctx context.Context, job Job) error {
	p.submitted++
	if p.err == nil {
		p.err = errors.New("compile failed")
	}
	return nil
}
func (p *erringPool) Close()     {}
func (p *erringPool) Err() error { return p.err }

func TestRegenerate_StopsAfterFailedJob(t *testing.T) {
	conn := setupDB(t)
	tableID, _ := seedTable(t, conn)
	for _, term := range []string{"a", "b", "c"} {
		addLemma(t, conn, term, tableID, nil)
	}

	pool := &erringPool{}
	d := NewDeriver(conn)
	d.PoolFactory = func(workers, queue int) Pool { return pool }

	n, err := d.Regenerate(context.Background(), tableID)
	assert.EqualError(t, err, "compile failed")
	assert.Zero(t, n)
	assert.Equal(t, 1, pool.submitted)
}

func TestRegenerate_CountsOnlyCommittedLemmas(t *testing.T) {
	conn := setupDB(t)
	tableID, _ := seedTable(t, conn)
	addLemma(t, conn, "cat", tableID, nil)
	addLemma(t, conn, "dog", tableID, nil)
	bad := addLemma(t, conn, "ox", tableID, nil)
	_, err := conn.Exec(fmt.Sprintf(`CREATE TRIGGER reject_ox BEFORE INSERT ON derived_forms
		WHEN NEW.lemma_id = %d BEGIN SELECT RAISE(ABORT, 'rejected'); END`, bad))
	require.NoError(t, err)

	d := NewDeriver(conn)
	d.Workers = 1
	n, err := d.Regenerate(context.Background(), tableID)
	require.Error(t, err)
	assert.Less(t, n, 3)

	var stored int
	require.NoError(t, conn.QueryRow("SELECT COUNT(DISTINCT lemma_id) FROM derived_forms").Scan(&stored))
	assert.Equal(t, stored, n)
}

func TestRegenerateLemma(t *testing.T) {
	conn := setupDB(t)
	tableID, _ := seedTable(t, conn)
	ox := addLemma(t, conn, "ox", tableID, map[string]string{"root": "ox"})

	lemma, err := db.GetLemma(conn, "ox", "en")
	require.NoError(t, err)
	got, err := RegenerateLemma(conn, lemma)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ox, got[0].LemmaID)

	require.NoError(t, db.AssignLemmaTable(conn, ox, 0))
	lemma, err = db.GetLemma(conn, "ox", "en")
	require.NoError(t, err)
	got, err = RegenerateLemma(conn, lemma)
	require.NoError(t, err)
	assert.Empty(t, got)

	stored, err := db.GetDerivedForms(conn, ox)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
