package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_CoalescesRapidCalls(t *testing.T) {
	d := New(50 * time.Millisecond)
	defer d.Stop()

	var fired int32
	var lastValue int32
	for i := 1; i <= 5; i++ {
		value := int32(i)
		d.Schedule("row1:amount", func() {
			atomic.AddInt32(&fired, 1)
			atomic.StoreInt32(&lastValue, value)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired), "only the last scheduled action may run")
	assert.Equal(t, int32(5), atomic.LoadInt32(&lastValue))
}

func TestSchedule_KeysAreIndependent(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	fired := map[string]bool{}
	mark := func(key string) func() {
		return func() {
			mu.Lock()
			fired[key] = true
			mu.Unlock()
		}
	}

	d.Schedule("row1:amount", mark("row1:amount"))
	d.Schedule("row2:amount", mark("row2:amount"))
	d.Schedule("row1:task", mark("row1:task"))

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 3, "edits to different rows or fields must not cancel each other")
}

func TestCancel(t *testing.T) {
	d := New(20 * time.Millisecond)
	defer d.Stop()

	var fired int32
	d.Schedule("k", func() { atomic.AddInt32(&fired, 1) })
	assert.True(t, d.Cancel("k"))
	assert.False(t, d.Cancel("k"), "second cancel finds nothing")

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestStop_DropsEverything(t *testing.T) {
	d := New(20 * time.Millisecond)

	var fired int32
	d.Schedule("a", func() { atomic.AddInt32(&fired, 1) })
	d.Schedule("b", func() { atomic.AddInt32(&fired, 1) })
	require.Equal(t, 2, d.Pending())

	d.Stop()
	assert.Equal(t, 0, d.Pending())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}
