package autosave

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long the document must stay unchanged before a
// snapshot is written.
const DefaultDebounce = 500 * time.Millisecond

// Scheduler debounces snapshot writes. Each Schedule supersedes the
// previous pending write, so only the latest text reaches the store.
type Scheduler struct {
	store   *Store
	delay   time.Duration
	onError func(error)

	// writeMu is held across store writes so Cancel and Clear wait for a
	// write that is already running. It is taken before mu.
	writeMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending *pendingSave
}

type pendingSave struct {
	text string
	path string
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDebounce sets the debounce delay.
func WithDebounce(delay time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if delay > 0 {
			s.delay = delay
		}
	}
}

// WithErrorHandler receives failures of background writes.
func WithErrorHandler(fn func(error)) SchedulerOption {
	return func(s *Scheduler) {
		if fn != nil {
			s.onError = fn
		}
	}
}

// NewScheduler creates a scheduler writing to store.
func NewScheduler(store *Store, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		store:   store,
		delay:   DefaultDebounce,
		onError: func(error) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule arranges for text to be written after the debounce delay.
func (s *Scheduler) Schedule(text, currentPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.pending = &pendingSave{text: text, path: currentPath}
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Cancel drops the pending write, if any. A write that already started is
// allowed to finish before Cancel returns.
func (s *Scheduler) Cancel() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.cancel()
}

// Clear drops the pending write and removes the stored snapshot.
func (s *Scheduler) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.cancel()
	return s.store.Clear(ctx)
}

func (s *Scheduler) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.pending = nil
}

// Pending reports whether a write is waiting for its delay.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush writes the pending snapshot immediately.
func (s *Scheduler) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.stopLocked()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending == nil {
		return nil
	}
	return s.store.Save(ctx, pending.text, pending.path)
}

// stopLocked stops the timer and invalidates a callback that already fired
// but has not taken the lock yet.
func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	if err := s.write(gen); err != nil {
		s.onError(err)
	}
}

// write saves the pending snapshot if gen is still current. The error
// handler runs after writeMu is released so it may call back into s.
func (s *Scheduler) write(gen uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return nil
	}
	pending := s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	return s.store.Save(context.Background(), pending.text, pending.path)
}
