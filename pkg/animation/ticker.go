// Package animation provides the timing primitives used to run property
// animations between commits.
//
// A [Scheduler] owns a set of [Ticker]s and a [Clock]. Each tree has its own
// scheduler, so animations of one tree never observe another's. The tree's
// main goroutine calls [Scheduler.Step] once per frame; every active ticker
// receives the time elapsed since it started.
//
// [AnimationController] drives a value from 0 to 1 over a duration with an
// easing [Curve]; [Tween] maps that value onto the animated type.
package animation

import (
	"sync"
	"time"
)

// Scheduler owns tickers and their time source.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	tickers map[*Ticker]struct{}
}

// NewScheduler creates a scheduler reading time from clock, or the system
// clock when clock is nil.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock, tickers: make(map[*Ticker]struct{})}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// NewTicker creates an inactive ticker bound to s.
func (s *Scheduler) NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{scheduler: s, callback: callback}
}

// Step advances every active ticker. Tickers started or stopped by a
// callback take effect on the next step.
func (s *Scheduler) Step() {
	s.mu.Lock()
	if len(s.tickers) == 0 {
		s.mu.Unlock()
		return
	}
	active := make([]*Ticker, 0, len(s.tickers))
	for t := range s.tickers {
		active = append(active, t)
	}
	s.mu.Unlock()

	now := s.Now()
	for _, t := range active {
		if t.active && t.callback != nil {
			t.callback(now.Sub(t.start))
		}
	}
}

// Active returns the number of running tickers.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickers)
}

// Ticker calls a callback on every scheduler step while active.
type Ticker struct {
	scheduler *Scheduler
	callback  func(elapsed time.Duration)
	active    bool
	start     time.Time
}

// Start activates the ticker. Starting an active ticker does nothing.
func (t *Ticker) Start() {
	if t.active {
		return
	}
	t.active = true
	t.start = t.scheduler.Now()
	t.scheduler.mu.Lock()
	t.scheduler.tickers[t] = struct{}{}
	t.scheduler.mu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.scheduler.mu.Lock()
	delete(t.scheduler.tickers, t)
	t.scheduler.mu.Unlock()
}

// IsActive reports whether the ticker is running.
func (t *Ticker) IsActive() bool { return t.active }

// Elapsed returns the time since Start, or zero when stopped.
func (t *Ticker) Elapsed() time.Duration {
	if !t.active {
		return 0
	}
	return t.scheduler.Now().Sub(t.start)
}
