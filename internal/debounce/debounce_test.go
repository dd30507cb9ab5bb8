package debounce_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/cookr/internal/debounce"
)

type recorder struct {
	mu   sync.Mutex
	runs []int
}

func (r *recorder) record(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, v)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.runs...)
}

func TestScheduler_BurstCollapsesToLatest(t *testing.T) {
	rec := &recorder{}
	s := debounce.New(30*time.Millisecond, rec.record)

	for i := 1; i <= 10; i++ {
		s.Trigger(i)
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []int{10}, rec.snapshot())
	assert.False(t, s.Pending())
}

func TestScheduler_SeparateQuietPeriodsRunSeparately(t *testing.T) {
	rec := &recorder{}
	s := debounce.New(20*time.Millisecond, rec.record)

	s.Trigger(1)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	s.Trigger(2)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []int{1, 2}, rec.snapshot())
}

func TestScheduler_FlushRunsImmediately(t *testing.T) {
	rec := &recorder{}
	s := debounce.New(time.Hour, rec.record)

	s.Trigger(1)
	s.Trigger(2)
	assert.True(t, s.Pending())

	assert.True(t, s.Flush())
	assert.Equal(t, []int{2}, rec.snapshot())
	assert.False(t, s.Pending())
	assert.False(t, s.Flush())
}

func TestScheduler_StopDiscardsPending(t *testing.T) {
	var calls atomic.Int32
	s := debounce.New(10*time.Millisecond, func(int) { calls.Add(1) })

	s.Trigger(1)
	s.Stop()
	s.Trigger(2)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, s.Pending())
}

func TestScheduler_RunsDoNotOverlap(t *testing.T) {
	var active, maxActive atomic.Int32
	var done atomic.Int32
	s := debounce.New(5*time.Millisecond, func(int) {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		done.Add(1)
	})

	s.Trigger(1)
	time.Sleep(10 * time.Millisecond)
	go s.Flush()
	s.Trigger(2)
	s.Flush()

	require.Eventually(t, func() bool { return done.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestNew_NonPositiveDelayUsesDefault(t *testing.T) {
	rec := &recorder{}
	s := debounce.New(0, rec.record)

	s.Trigger(1)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.True(t, s.Pending())
	s.Stop()
}
