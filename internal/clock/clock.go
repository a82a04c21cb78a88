package clock

import (
	"sync"
	"time"
)

// Clock supplies wall-clock time and schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer.
	Stop() bool
}

// Real is the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Every calls f every d until the returned timer is stopped. The first call
// happens after d.
func Every(c Clock, d time.Duration, f func()) Timer {
	r := &repeater{clock: c, every: d, fn: f}
	r.mu.Lock()
	r.arm()
	r.mu.Unlock()
	return r
}

type repeater struct {
	mu      sync.Mutex
	clock   Clock
	every   time.Duration
	fn      func()
	current Timer
	stopped bool
}

// arm must be called with mu held.
func (r *repeater) arm() {
	r.current = r.clock.AfterFunc(r.every, r.fire)
}

func (r *repeater) fire() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.arm()
	r.mu.Unlock()

	r.fn()
}

func (r *repeater) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return false
	}
	r.stopped = true
	if r.current != nil {
		r.current.Stop()
	}
	return true
}

// Group tracks timers so they can be cancelled together on teardown.
type Group struct {
	mu     sync.Mutex
	timers []Timer
	closed bool
}

// Add registers t. If the group is already stopped, t is stopped immediately.
func (g *Group) Add(t Timer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		t.Stop()
		return
	}
	g.timers = append(g.timers, t)
}

// StopAll stops every registered timer and refuses new ones.
func (g *Group) StopAll() {
	g.mu.Lock()
	timers := g.timers
	g.timers = nil
	g.closed = true
	g.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}
