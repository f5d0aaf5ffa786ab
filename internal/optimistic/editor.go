// Package optimistic implements the inline field editing pattern shared by
// the cases and customers pages: the displayed value changes the moment the
// operator types or picks, the network write happens behind it, and a failed
// write puts the pre-edit value back. Writes can fire immediately (selects)
// or after a quiet window (amount fields), coalesced per row and field.
package optimistic

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/pkg/debounce"
)

// WriteFunc persists one field of one row server-side.
type WriteFunc func(ctx context.Context, rowID, field, value string) error

// ApplyFunc mutates the locally displayed value of one field of one row.
type ApplyFunc func(rowID, field, value string)

// FailureFunc runs after a revert, with the error to surface. List pages use
// it to trigger a full reload so the display matches the server again.
type FailureFunc func(rowID, field string, err error)

type pendingEdit struct {
	rowID string
	field string
	// prev is the known-good value captured at the first edit of a burst;
	// later edits in the same burst keep it.
	prev   string
	latest string
	seq    uint64
}

type Editor struct {
	write     WriteFunc
	apply     ApplyFunc
	onFailure FailureFunc
	debouncer *debounce.Debouncer
	logger    *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingEdit
}

func NewEditor(write WriteFunc, apply ApplyFunc, onFailure FailureFunc, window time.Duration, logger *zap.Logger) *Editor {
	return &Editor{
		write:     write,
		apply:     apply,
		onFailure: onFailure,
		debouncer: debounce.New(window),
		logger:    logger.Named("optimistic"),
		pending:   make(map[string]*pendingEdit),
	}
}

// Set applies the value locally and fires the write now. On failure the
// field is put back to current and the failure hook runs.
func (e *Editor) Set(ctx context.Context, rowID, field, value, current string) error {
	e.apply(rowID, field, value)
	if err := e.write(ctx, rowID, field, value); err != nil {
		e.apply(rowID, field, current)
		e.logger.Warn("field write failed, reverted",
			zap.String("row_id", rowID),
			zap.String("field", field),
			zap.Error(err),
		)
		if e.onFailure != nil {
			e.onFailure(rowID, field, err)
		}
		return err
	}
	return nil
}

// SetDebounced applies the value locally and schedules the write after the
// quiet window. Rapid calls for the same row and field collapse into one
// write carrying the last value; different rows or fields never share a
// timer. current must be the displayed value before this edit; only the
// first call of a burst records it as the revert target.
func (e *Editor) SetDebounced(rowID, field, value, current string) {
	e.apply(rowID, field, value)

	key := editKey(rowID, field)
	e.mu.Lock()
	p, ok := e.pending[key]
	if !ok {
		p = &pendingEdit{rowID: rowID, field: field, prev: current}
		e.pending[key] = p
	}
	p.latest = value
	p.seq++
	e.mu.Unlock()

	e.debouncer.Schedule(key, func() { e.flushKey(key) })
}

func (e *Editor) flushKey(key string) {
	e.mu.Lock()
	p, ok := e.pending[key]
	if !ok {
		e.mu.Unlock()
		return
	}
	value, prev, seq := p.latest, p.prev, p.seq
	rowID, field := p.rowID, p.field
	e.mu.Unlock()

	err := e.write(context.Background(), rowID, field, value)

	e.mu.Lock()
	current, still := e.pending[key]
	// A newer edit may have arrived while the write was on the wire; its
	// own flush owns the outcome then.
	settled := still && current.seq == seq
	if settled {
		delete(e.pending, key)
	}
	e.mu.Unlock()

	if err != nil && settled {
		e.apply(rowID, field, prev)
		e.logger.Warn("debounced write failed, reverted",
			zap.String("row_id", rowID),
			zap.String("field", field),
			zap.Error(err),
		)
		if e.onFailure != nil {
			e.onFailure(rowID, field, err)
		}
	}
}

// Flush fires every pending write immediately. Called on page teardown so
// typed-but-unsent values are not lost.
func (e *Editor) Flush() {
	e.mu.Lock()
	keys := make([]string, 0, len(e.pending))
	for key := range e.pending {
		keys = append(keys, key)
	}
	e.mu.Unlock()

	for _, key := range keys {
		e.debouncer.Cancel(key)
		e.flushKey(key)
	}
}

// CancelAll drops every pending write without sending it and leaves the
// displayed values as they are.
func (e *Editor) CancelAll() {
	e.debouncer.Stop()
	e.mu.Lock()
	e.pending = make(map[string]*pendingEdit)
	e.mu.Unlock()
}

// PendingCount reports how many row+field edits await their write.
func (e *Editor) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func editKey(rowID, field string) string {
	return rowID + "\x00" + field
}
