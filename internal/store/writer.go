// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/lanternmush/lantern/internal/world"
)

// Writer defaults.
const (
	DefaultQueueSize    = 512
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 50 * time.Millisecond
	maxRetryBackoff     = 2 * time.Second
)

// Error codes.
const (
	CodeWriterClosed = "WRITER_CLOSED"
	CodeWriteFailed  = "WRITE_FAILED"
)

// ErrWriterClosed is returned for writes issued after Close.
var ErrWriterClosed = oops.Code(CodeWriterClosed).Errorf("persistence writer is closed")

// WriterConfig configures a Writer.
type WriterConfig struct {
	// QueueSize defaults to DefaultQueueSize.
	QueueSize int
	// MaxRetries bounds retries of transient storage failures.
	MaxRetries uint64
	// RetryBackoff is the first retry delay; it doubles on each attempt.
	RetryBackoff time.Duration
}

type job struct {
	kind  string
	id    string
	mode  Mode
	run   func(ctx context.Context) error
	reply chan error
}

// Writer serialises world writes onto one worker goroutine. Deferred writes
// return once queued; Immediate writes wait for their outcome. Because both
// share one queue, an Immediate write is stored after every write issued
// before it.
//
// Payloads are cloned on the caller's goroutine, so callers may keep
// mutating what they saved.
type Writer struct {
	repo       world.Repository
	jobs       chan job
	done       chan struct{}
	maxRetries uint64
	backoff    time.Duration

	mu     sync.RWMutex
	closed bool

	startOnce sync.Once
	closeOnce sync.Once
}

// NewWriter creates a writer over repo. Call Start before issuing writes.
func NewWriter(repo world.Repository, cfg WriterConfig) *Writer {
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	return &Writer{
		repo:       repo,
		jobs:       make(chan job, size),
		done:       make(chan struct{}),
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// Start launches the worker goroutine. Subsequent calls do nothing.
func (w *Writer) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Close stops accepting writes, waits for queued ones to finish and stops
// the worker. It returns ctx.Err() if ctx ends first.
func (w *Writer) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.jobs)
		w.mu.Unlock()
		w.Start()
	})
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SaveRoom stores a room and its exits.
func (w *Writer) SaveRoom(ctx context.Context, room *world.Room, mode Mode) error {
	c := room.Clone()
	return w.submit(ctx, job{kind: "room", id: c.ID.String(), mode: mode, run: func(ctx context.Context) error {
		return w.repo.UpsertRoom(ctx, c)
	}})
}

// SaveObject stores an object.
func (w *Writer) SaveObject(ctx context.Context, obj *world.Object, mode Mode) error {
	c := obj.Clone()
	return w.submit(ctx, job{kind: "object", id: c.ID.String(), mode: mode, run: func(ctx context.Context) error {
		return w.repo.UpsertObject(ctx, c)
	}})
}

// DeleteObject removes an object.
func (w *Writer) DeleteObject(ctx context.Context, id world.ObjectID, mode Mode) error {
	return w.submit(ctx, job{kind: "object_delete", id: id.String(), mode: mode, run: func(ctx context.Context) error {
		return w.repo.DeleteObject(ctx, id)
	}})
}

// SavePlayer stores an existing player's mutable fields.
func (w *Writer) SavePlayer(ctx context.Context, p *world.Player, mode Mode) error {
	c := p.Clone()
	return w.submit(ctx, job{kind: "player", id: c.ID.String(), mode: mode, run: func(ctx context.Context) error {
		return w.repo.UpdatePlayer(ctx, c)
	}})
}

// Flush waits until every write queued before it has been attempted.
func (w *Writer) Flush(ctx context.Context) error {
	return w.submit(ctx, job{kind: "flush", mode: Immediate, run: func(context.Context) error { return nil }})
}

// Pending returns the number of queued writes.
func (w *Writer) Pending() int {
	return len(w.jobs)
}

func (w *Writer) submit(ctx context.Context, j job) error {
	if j.mode == Immediate {
		j.reply = make(chan error, 1)
	}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWriterClosed
	}
	select {
	case w.jobs <- j:
		queueDepth.Set(float64(len(w.jobs)))
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}
	w.mu.RUnlock()

	if j.reply == nil {
		return nil
	}
	select {
	case err := <-j.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) run() {
	defer close(w.done)
	// Writes are not tied to any caller's lifetime once queued.
	ctx := context.Background()
	for j := range w.jobs {
		queueDepth.Set(float64(len(w.jobs)))
		err := w.execute(ctx, j)
		if j.reply != nil {
			j.reply <- err
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "deferred write failed",
				"kind", j.kind,
				"id", j.id,
				"error", err,
			)
		}
	}
}

func (w *Writer) execute(ctx context.Context, j job) error {
	start := time.Now()
	attempts := 0
	backoff := retry.WithCappedDuration(maxRetryBackoff,
		retry.WithMaxRetries(w.maxRetries, retry.NewExponential(w.backoff)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			writeRetries.WithLabelValues(j.kind).Inc()
		}
		if err := j.run(ctx); err != nil {
			if IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})

	status := StatusOK
	if err != nil {
		status = StatusFailed
		err = oops.Code(CodeWriteFailed).
			With("kind", j.kind).
			With("id", j.id).
			With("attempts", attempts).
			Wrap(err)
	}
	recordWrite(j.kind, j.mode, status, time.Since(start))
	return err
}

// IsTransient reports whether err is a storage failure worth retrying:
// lost connections, serialization conflicts and exhausted resources.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsTransactionRollback(pgErr.Code) ||
			pgerrcode.IsInsufficientResources(pgErr.Code)
	}
	return pgconn.SafeToRetry(err)
}
