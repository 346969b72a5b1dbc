// Package store holds the client-side cache of remote state. Each slice
// mutates only in response to a data-access outcome and never lets an error
// escape unnormalized.
package store

import (
	"context"
	"sync"
	"time"

	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
	"estate-admin/internal/common/metrics"
)

// SnapshotStore persists slice state between console runs.
type SnapshotStore interface {
	Save(ctx context.Context, name string, v interface{}) error
	Load(ctx context.Context, name string, out interface{}) (bool, error)
}

// Recorder receives one call per finished slice operation.
type Recorder interface {
	RecordOperation(ctx context.Context, slice, operation string, duration time.Duration, err error)
}

type Option func(*base)

func WithLogger(log logger.Logger) Option {
	return func(b *base) {
		if log != nil {
			b.logger = log
		}
	}
}

func WithSnapshots(s SnapshotStore) Option {
	return func(b *base) { b.snapshots = s }
}

func WithRecorder(r Recorder) Option {
	return func(b *base) { b.recorder = r }
}

// base carries the bookkeeping shared by every slice: the lock, the in-flight
// counter behind the loading flag and the last error message.
type base struct {
	name string

	mu       sync.RWMutex
	inFlight int
	errMsg   string

	logger    logger.Logger
	errs      *errors.ErrorHandler
	snapshots SnapshotStore
	recorder  Recorder
}

func newBase(name string, opts []Option) *base {
	b := &base{
		name:   name,
		logger: logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(map[string]interface{}{"slice": name})
	b.errs = errors.NewErrorHandler(b.logger)
	return b
}

// begin marks an operation in flight and clears the previous error.
func (b *base) begin() time.Time {
	b.mu.Lock()
	b.inFlight++
	b.errMsg = ""
	b.mu.Unlock()
	metrics.StoreOperationsActive.WithLabelValues(b.name).Inc()
	return time.Now()
}

// finish closes an operation. A failure is normalized, logged and stored as
// the slice error; the normalized error is returned.
func (b *base) finish(ctx context.Context, operation string, start time.Time, err error) error {
	metrics.StoreOperationsActive.WithLabelValues(b.name).Dec()
	if b.recorder != nil {
		b.recorder.RecordOperation(ctx, b.name, operation, time.Since(start), err)
	}

	var stdErr *errors.StandardError
	if err != nil {
		stdErr = b.errs.Handle(operation, err)
		metrics.StoreOperationFailures.WithLabelValues(b.name, operation, string(stdErr.Code)).Inc()
	}

	b.mu.Lock()
	b.inFlight--
	if stdErr != nil {
		b.errMsg = errors.MessageOf(stdErr, errors.DefaultMessage)
	}
	b.mu.Unlock()

	if stdErr == nil {
		return nil
	}
	return stdErr
}

func (b *base) loadingLocked() bool {
	return b.inFlight > 0
}

// ClearError drops the stored error message.
func (b *base) ClearError() {
	b.mu.Lock()
	b.errMsg = ""
	b.mu.Unlock()
}

func (b *base) persist(ctx context.Context, v interface{}) {
	if b.snapshots == nil {
		return
	}
	if err := b.snapshots.Save(ctx, b.name, v); err != nil {
		b.logger.Warn("failed to persist snapshot", map[string]interface{}{"error": err.Error()})
	}
}

func (b *base) restore(ctx context.Context, out interface{}) (bool, error) {
	if b.snapshots == nil {
		return false, nil
	}
	return b.snapshots.Load(ctx, b.name, out)
}
