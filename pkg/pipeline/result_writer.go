package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/japaniel/cousinwords/pkg/db"
)

// ResultWriter buffers scored pairs for one run and commits them in batches,
// one transaction per batch, from a background goroutine.
type ResultWriter struct {
	conn     *sql.DB
	runID    int64
	language string

	mu          sync.Mutex
	buf         []db.Pair
	cap         int
	flushTicker *time.Ticker
	closed      bool
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	commitCh    chan []db.Pair

	// OnError is called for every failed or dropped batch.
	OnError func(error)

	errMu   sync.Mutex
	lastErr error
	written int
}

// NewResultWriter creates a writer for runID.
// bufferSize: flush when buffer reaches this size.
// flushInterval: flush after this duration (0 to disable).
func NewResultWriter(conn *sql.DB, runID int64, language string, bufferSize int, flushInterval time.Duration) *ResultWriter {
	if bufferSize <= 0 {
		bufferSize = 500
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &ResultWriter{
		conn:     conn,
		runID:    runID,
		language: language,
		buf:      make([]db.Pair, 0, bufferSize),
		cap:      bufferSize,
		ctx:      ctx,
		cancel:   cancel,
		commitCh: make(chan []db.Pair, 2),
	}

	w.wg.Add(1)
	go w.committer()

	if flushInterval > 0 {
		w.flushTicker = time.NewTicker(flushInterval)
		w.wg.Add(1)
		go w.loop()
	}
	return w
}

// Submit enqueues pairs for writing.
func (w *ResultWriter) Submit(pairs ...db.Pair) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrBatchWriterClosed
	}
	for _, p := range pairs {
		w.buf = append(w.buf, p)
		if len(w.buf) >= w.cap {
			w.flushLocked()
		}
	}
	return nil
}

// flushLocked assumes w.mu is held. A full commit queue blocks the caller,
// which is the backpressure on producers.
func (w *ResultWriter) flushLocked() {
	if len(w.buf) == 0 {
		return
	}
	batch := w.buf
	w.buf = make([]db.Pair, 0, w.cap)

	select {
	case w.commitCh <- batch:
	case <-w.ctx.Done():
		w.fail(fmt.Errorf("result writer: dropping batch of %d pairs due to context cancellation", len(batch)))
	}
}

func (w *ResultWriter) fail(err error) {
	w.errMu.Lock()
	if w.lastErr == nil {
		w.lastErr = err
	}
	w.errMu.Unlock()
	if w.OnError != nil {
		w.OnError(err)
	}
}

func (w *ResultWriter) committer() {
	defer w.wg.Done()
	for batch := range w.commitCh {
		if err := w.commit(batch); err != nil {
			w.fail(err)
			continue
		}
		w.errMu.Lock()
		w.written += len(batch)
		w.errMu.Unlock()
	}
}

func (w *ResultWriter) commit(batch []db.Pair) error {
	// Flushing uses a background context so closing never cancels a commit midway.
	tx, err := w.conn.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, p := range batch {
		if err := db.InsertPair(tx, w.runID, w.language, p); err != nil {
			return fmt.Errorf("failed to persist pair %s/%s: %w", p.Word, p.Related, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d pairs): %w", len(batch), err)
	}
	return nil
}

func (w *ResultWriter) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.mu.Lock()
			w.flushLocked()
			w.mu.Unlock()
		}
	}
}

// Written returns the number of pairs committed so far.
func (w *ResultWriter) Written() int {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.written
}

// Close flushes remaining pairs, waits for pending commits and returns the
// first error seen.
func (w *ResultWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrBatchWriterClosed
	}
	w.closed = true
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}
	w.flushLocked()
	w.mu.Unlock()

	w.cancel()
	close(w.commitCh)
	w.wg.Wait()

	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.lastErr
}

// ErrBatchWriterClosed is returned when submitting to or closing a closed writer.
var ErrBatchWriterClosed = &BatchWriterError{"result writer closed"}

// BatchWriterError is a typed error for writer operations.
type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
