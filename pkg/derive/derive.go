// Package derive computes the inflected forms of every lemma attached to an
// inflection table and stores them.
package derive

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/japaniel/paradigm/pkg/db"
	"github.com/japaniel/paradigm/pkg/pattern"
)

// Forms compiles every form marked for derivation against a lemma's term and
// stems. Forms not derived from the lemma are skipped.
func Forms(term string, stems pattern.StemSource, forms []db.InflectedForm) []db.DerivedForm {
	out := make([]db.DerivedForm, 0, len(forms))
	for _, f := range forms {
		if !f.DeriveLemma {
			continue
		}
		out = append(out, db.DerivedForm{
			InflectedFormID: f.ID,
			DisplayName:     f.DisplayName,
			Text:            pattern.Compile(f.InflectionPattern, stems, term),
		})
	}
	return out
}

// Deriver regenerates derived forms for all lemmas of a table.
type Deriver struct {
	DB        *sql.DB
	BatchSize int
	Workers   int
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called with the number of lemmas queued so far and the total.
	OnProgress func(current, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) Pool
}

// NewDeriver creates a Deriver with default batching and concurrency.
func NewDeriver(conn *sql.DB) *Deriver {
	return &Deriver{
		DB:        conn,
		BatchSize: 50,
		Workers:   4,
	}
}

type lemmaJob struct {
	lemma db.Lemma
	stems pattern.StemMap
}

// Regenerate recomputes and stores the derived forms of every lemma attached
// to tableID. It returns the number of lemmas whose forms were committed.
// Stems are read up front so that workers only compile patterns and the
// batch writer is the only goroutine writing to the database. The first
// failed job or batch stops the run.
func (d *Deriver) Regenerate(ctx context.Context, tableID int64) (int, error) {
	forms, err := db.GetInflectedForms(d.DB, tableID)
	if err != nil {
		return 0, fmt.Errorf("load forms: %w", err)
	}
	lemmas, err := db.GetLemmasByTable(d.DB, tableID)
	if err != nil {
		return 0, fmt.Errorf("load lemmas: %w", err)
	}
	if len(lemmas) == 0 {
		return 0, nil
	}
	jobs := make([]lemmaJob, len(lemmas))
	for i, l := range lemmas {
		stems, err := db.GetLemmaStems(d.DB, l.ID)
		if err != nil {
			return 0, fmt.Errorf("load stems of %q: %w", l.Term, err)
		}
		jobs[i] = lemmaJob{lemma: l, stems: stems}
	}

	var wp Pool
	if d.PoolFactory != nil {
		wp = d.PoolFactory(d.Workers, d.Workers*2)
	} else {
		wp = NewWorkerPool(d.Workers, d.Workers*2)
	}
	bw := NewBatchWriter(d.DB, d.BatchSize, 100*time.Millisecond)
	var written int64
	bw.OnCommit = func(n int) { atomic.AddInt64(&written, int64(n)) }

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wp.Start(ctx)

	every := d.BatchSize
	if every <= 0 {
		every = 1
	}
	start := time.Now()
	var submitErr error
	for i, job := range jobs {
		if wp.Err() != nil || bw.Err() != nil {
			cancel()
			break
		}
		job := job
		err := wp.SubmitCtx(ctx, func(ctx context.Context) error {
			derived := Forms(job.lemma.Term, job.stems, forms)
			return bw.Submit(func(_ context.Context, tx *sql.Tx) error {
				if err := db.ReplaceDerivedForms(tx, job.lemma.ID, derived); err != nil {
					return fmt.Errorf("store forms of %q: %w", job.lemma.Term, err)
				}
				return nil
			})
		})
		if err != nil {
			submitErr = err
			cancel()
			break
		}
		if d.OnProgress != nil && ((i+1)%every == 0 || i+1 == len(jobs)) {
			d.OnProgress(i+1, len(jobs))
		}
	}

	wp.Close()
	writeErr := bw.Close()

	switch {
	case submitErr != nil:
		return int(atomic.LoadInt64(&written)), submitErr
	case wp.Err() != nil:
		return int(atomic.LoadInt64(&written)), wp.Err()
	case writeErr != nil:
		return int(atomic.LoadInt64(&written)), writeErr
	}
	if d.Logger != nil {
		d.Logger.Printf("derived forms for %d lemmas of table %d in %v", written, tableID, time.Since(start))
	}
	return int(atomic.LoadInt64(&written)), nil
}

// RegenerateLemma recomputes the derived forms of a single lemma
// synchronously. A lemma without a table has no derived forms.
func RegenerateLemma(conn db.DBExecutor, lemma db.Lemma) ([]db.DerivedForm, error) {
	if lemma.TableID == 0 {
		return nil, db.ReplaceDerivedForms(conn, lemma.ID, nil)
	}
	forms, err := db.GetInflectedForms(conn, lemma.TableID)
	if err != nil {
		return nil, fmt.Errorf("load forms: %w", err)
	}
	stems, err := db.GetLemmaStems(conn, lemma.ID)
	if err != nil {
		return nil, fmt.Errorf("load stems: %w", err)
	}
	derived := Forms(lemma.Term, pattern.StemMap(stems), forms)
	if err := db.ReplaceDerivedForms(conn, lemma.ID, derived); err != nil {
		return nil, err
	}
	for i := range derived {
		derived[i].LemmaID = lemma.ID
	}
	return derived, nil
}
