package remote

import (
	"sync"
	"time"
)

// Scheduler debounces a unit of work. Each Schedule call cancels the
// previously pending run and arms a fresh timer, so a burst of edits
// collapses into one save after the burst goes quiet.
type Scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewScheduler creates a Scheduler with the given quiet period.
func NewScheduler(delay time.Duration) *Scheduler {
	return &Scheduler{delay: delay}
}

// Schedule arms fn to run after the quiet period, replacing any run
// still pending.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

// Flush cancels any pending run and, if one was pending, returns true
// so the caller can run the work immediately.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return false
	}
	pending := s.timer.Stop()
	s.timer = nil
	return pending
}

// Stop cancels any pending run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
