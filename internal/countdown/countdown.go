package countdown

import (
	"sync"
	"time"

	"github.com/ivlev/giftreveal/internal/clock"
)

const (
	msPerDay    = 86400000
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

// State is the remaining-time breakdown shown by the countdown.
type State struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	Expired bool  `json:"expired"`
}

// Milliseconds recombines the components. Sub-second remainders are lost.
func (s State) Milliseconds() int64 {
	return s.Days*msPerDay + s.Hours*msPerHour + s.Minutes*msPerMinute + s.Seconds*msPerSecond
}

// ComputeRemaining derives the breakdown of target-now. A target that is not
// in the future yields the expired state with every component pinned at zero.
func ComputeRemaining(target, now time.Time) State {
	d := target.Sub(now)
	if d <= 0 {
		return State{Expired: true}
	}
	delta := d.Milliseconds()
	return State{
		Days:    delta / msPerDay,
		Hours:   (delta % msPerDay) / msPerHour,
		Minutes: (delta % msPerHour) / msPerMinute,
		Seconds: (delta % msPerMinute) / msPerSecond,
	}
}

// Timer recomputes the countdown once per second while running.
type Timer struct {
	mu      sync.Mutex
	clock   clock.Clock
	target  time.Time
	onTick  func(State)
	state   State
	ticker  clock.Timer
	running bool
}

// NewTimer creates a countdown against a fixed target. onTick may be nil.
func NewTimer(c clock.Clock, target time.Time, onTick func(State)) *Timer {
	return &Timer{clock: c, target: target, onTick: onTick}
}

// Start computes the initial state and begins the once-per-second recompute.
// Calling Start on a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.state = ComputeRemaining(t.target, t.clock.Now())
	if !t.state.Expired {
		t.ticker = clock.Every(t.clock, time.Second, t.tick)
	}
	st := t.state
	t.mu.Unlock()

	t.notify(st)
}

func (t *Timer) tick() {
	t.mu.Lock()
	if !t.running || t.state.Expired {
		t.mu.Unlock()
		return
	}
	t.state = ComputeRemaining(t.target, t.clock.Now())
	if t.state.Expired && t.ticker != nil {
		// pinned from here on
		t.ticker.Stop()
		t.ticker = nil
	}
	st := t.state
	t.mu.Unlock()

	t.notify(st)
}

func (t *Timer) notify(st State) {
	if t.onTick != nil {
		t.onTick(st)
	}
}

// Stop cancels the recurring recompute. The last state stays readable.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}
	t.running = false
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	return true
}

// State returns the most recently computed state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Running reports whether the timer is ticking or holding a pinned state.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
