// Package debounce collapses bursts of requests into a single trailing run.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by the interactive commands.
const DefaultDelay = 500 * time.Millisecond

// Scheduler is a latest-request-wins scheduler. Each Trigger overwrites a
// single pending slot and restarts the quiet period; when the period elapses
// without another Trigger, the pending value is handed to the run function.
// Runs never overlap.
type Scheduler[T any] struct {
	delay time.Duration
	run   func(T)

	mu         sync.Mutex
	pending    T
	hasPending bool
	generation uint64
	timer      *time.Timer
	stopped    bool

	runMu sync.Mutex
}

// New returns a scheduler that calls run with the latest value after delay
// of inactivity. A non-positive delay falls back to DefaultDelay.
func New[T any](delay time.Duration, run func(T)) *Scheduler[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler[T]{delay: delay, run: run}
}

// Trigger replaces the pending value with v and restarts the quiet period.
// Triggers after Stop are ignored.
func (s *Scheduler[T]) Trigger(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.pending = v
	s.hasPending = true
	s.generation++
	gen := s.generation

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Pending reports whether a value is waiting for its quiet period to end.
func (s *Scheduler[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasPending
}

// Flush runs the pending value immediately, if there is one, and reports
// whether it did.
func (s *Scheduler[T]) Flush() bool {
	v, ok := s.take(0, false)
	if !ok {
		return false
	}
	s.execute(v)
	return true
}

// Stop discards the pending value and disables the scheduler. A run already
// in progress is allowed to finish.
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.hasPending = false
	var zero T
	s.pending = zero
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler[T]) fire(gen uint64) {
	v, ok := s.take(gen, true)
	if !ok {
		return
	}
	s.execute(v)
}

// take empties the pending slot. With checkGen set it only does so when gen
// is still the latest generation, so a timer superseded by a later Trigger
// becomes a no-op even if it already fired.
func (s *Scheduler[T]) take(gen uint64, checkGen bool) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.stopped || !s.hasPending || (checkGen && gen != s.generation) {
		return zero, false
	}

	v := s.pending
	s.pending = zero
	s.hasPending = false
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return v, true
}

func (s *Scheduler[T]) execute(v T) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.run(v)
}
