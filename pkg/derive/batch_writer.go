package derive

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// WriteFunc writes inside the transaction of the batch it was grouped into.
// tx is nil when the writer has no database.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// ErrBatchWriterClosed is returned by Submit and Close once Close has run.
var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }

// BatchWriter groups writes into transactions. A single goroutine owns the
// pending batch and commits it when it reaches the batch size, when the
// flush interval elapses, or on Close. The first failed batch stops the
// writer: later batches are dropped and the error is reported by Submit,
// Err and Close.
type BatchWriter struct {
	db       *sql.DB
	size     int
	interval time.Duration
	OnError  func(error)
	// OnCommit is called with the number of writes in each committed batch.
	OnCommit func(n int)

	writes chan WriteFunc
	done   chan struct{}

	// mu guards closed and keeps Close from closing writes under a
	// concurrent Submit.
	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	err   error
}

// NewBatchWriter starts a writer committing every size writes and, when
// interval is positive, at least that often.
func NewBatchWriter(db *sql.DB, size int, interval time.Duration) *BatchWriter {
	if size <= 0 {
		size = 10
	}
	bw := &BatchWriter{
		db:       db,
		size:     size,
		interval: interval,
		writes:   make(chan WriteFunc, size),
		done:     make(chan struct{}),
	}
	go bw.run()
	return bw
}

// Submit queues w for the next batch. It blocks while the queue is full.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.RLock()
	defer bw.mu.RUnlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	if err := bw.Err(); err != nil {
		return err
	}
	bw.writes <- w
	return nil
}

func (bw *BatchWriter) run() {
	defer close(bw.done)

	var tick <-chan time.Time
	if bw.interval > 0 {
		t := time.NewTicker(bw.interval)
		defer t.Stop()
		tick = t.C
	}

	pending := make([]WriteFunc, 0, bw.size)
	flush := func() {
		if len(pending) > 0 {
			bw.commit(pending)
			pending = pending[:0]
		}
	}
	for {
		select {
		case w, ok := <-bw.writes:
			if !ok {
				flush()
				return
			}
			pending = append(pending, w)
			if len(pending) >= bw.size {
				flush()
			}
		case <-tick:
			flush()
		}
	}
}

func (bw *BatchWriter) commit(batch []WriteFunc) {
	if bw.Err() != nil {
		return
	}
	err := bw.apply(batch)
	if err == nil {
		if bw.OnCommit != nil {
			bw.OnCommit(len(batch))
		}
		return
	}
	bw.errMu.Lock()
	if bw.err == nil {
		bw.err = err
	}
	bw.errMu.Unlock()
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

// apply runs a batch in one transaction. It does not use the caller's
// context so that a canceled run still commits or rolls back cleanly.
func (bw *BatchWriter) apply(batch []WriteFunc) error {
	ctx := context.Background()
	if bw.db == nil {
		for _, w := range batch {
			if err := w(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch of %d: %w", len(batch), err)
	}
	return nil
}

// Err returns the error of the first failed batch.
func (bw *BatchWriter) Err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.err
}

// Close commits what is pending, stops the writer and returns Err.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	close(bw.writes)
	bw.mu.Unlock()

	<-bw.done
	return bw.Err()
}
