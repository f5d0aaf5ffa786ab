package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	mu       sync.Mutex
	rows     map[string]map[string]string
	writes   []string
	writeErr error
	failures int
}

func newHarness(initial map[string]map[string]string) *harness {
	return &harness{rows: initial}
}

func (h *harness) write(_ context.Context, rowID, field, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes = append(h.writes, rowID+"."+field+"="+value)
	return h.writeErr
}

func (h *harness) apply(rowID, field, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rows[rowID] == nil {
		h.rows[rowID] = map[string]string{}
	}
	h.rows[rowID][field] = value
}

func (h *harness) failed(string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures++
}

func (h *harness) value(rowID, field string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rows[rowID][field]
}

func (h *harness) writeLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.writes...)
}

func (h *harness) editor(window time.Duration) *Editor {
	return NewEditor(h.write, h.apply, h.failed, window, zap.NewNop())
}

func TestSetDebounced_RapidEditsSendOneWriteWithLastValue(t *testing.T) {
	h := newHarness(map[string]map[string]string{"case1": {"amount": "100"}})
	e := h.editor(40 * time.Millisecond)
	defer e.CancelAll()

	values := []string{"1", "15", "150", "1500", "15000"}
	current := "100"
	for _, v := range values {
		e.SetDebounced("case1", "amount", v, current)
		current = v
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, "15000", h.value("case1", "amount"), "display updates on every keystroke")

	time.Sleep(120 * time.Millisecond)
	require.Equal(t, []string{"case1.amount=15000"}, h.writeLog(),
		"a burst of edits produces exactly one write, carrying the last value")
	assert.Equal(t, 0, e.PendingCount())
}

func TestSetDebounced_FailureRevertsToPreEditValue(t *testing.T) {
	h := newHarness(map[string]map[string]string{"case1": {"amount": "100"}})
	h.writeErr = errors.New("boom")
	e := h.editor(20 * time.Millisecond)
	defer e.CancelAll()

	e.SetDebounced("case1", "amount", "250", "100")
	e.SetDebounced("case1", "amount", "2500", "250")
	assert.Equal(t, "2500", h.value("case1", "amount"))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "100", h.value("case1", "amount"),
		"revert goes back to the value before the burst, not an intermediate one")
	h.mu.Lock()
	assert.Equal(t, 1, h.failures)
	h.mu.Unlock()
}

func TestSetDebounced_KeysAreIndependent(t *testing.T) {
	h := newHarness(map[string]map[string]string{
		"case1": {"amount": "1", "task": "call"},
		"case2": {"amount": "2"},
	})
	e := h.editor(20 * time.Millisecond)
	defer e.CancelAll()

	e.SetDebounced("case1", "amount", "10", "1")
	e.SetDebounced("case2", "amount", "20", "2")
	e.SetDebounced("case1", "task", "visit", "call")

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, h.writeLog(), 3, "edits to different rows or fields never cancel each other")
}

func TestSet_ImmediateFailureReverts(t *testing.T) {
	h := newHarness(map[string]map[string]string{"cust1": {"status": "open"}})
	h.writeErr = errors.New("conflict")
	e := h.editor(time.Second)

	err := e.Set(context.Background(), "cust1", "status", "close", "open")
	require.Error(t, err)
	assert.Equal(t, "open", h.value("cust1", "status"))
	h.mu.Lock()
	assert.Equal(t, 1, h.failures)
	h.mu.Unlock()
}

func TestSet_ImmediateSuccessKeepsOptimisticValue(t *testing.T) {
	h := newHarness(map[string]map[string]string{"cust1": {"status": "open"}})
	e := h.editor(time.Second)

	require.NoError(t, e.Set(context.Background(), "cust1", "status", "close", "open"))
	assert.Equal(t, "close", h.value("cust1", "status"))
	assert.Equal(t, []string{"cust1.status=close"}, h.writeLog())
}

func TestFlush_SendsPendingWritesNow(t *testing.T) {
	h := newHarness(map[string]map[string]string{"case1": {"amount": "100"}})
	e := h.editor(10 * time.Second)

	e.SetDebounced("case1", "amount", "999", "100")
	require.Equal(t, 1, e.PendingCount())

	e.Flush()
	assert.Equal(t, []string{"case1.amount=999"}, h.writeLog())
	assert.Equal(t, 0, e.PendingCount())
}

func TestCancelAll_DropsWithoutSending(t *testing.T) {
	h := newHarness(map[string]map[string]string{"case1": {"amount": "100"}})
	e := h.editor(20 * time.Millisecond)

	e.SetDebounced("case1", "amount", "999", "100")
	e.CancelAll()

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, h.writeLog())
	assert.Equal(t, "999", h.value("case1", "amount"),
		"cancel leaves the display as typed, nothing is sent or reverted")
}
