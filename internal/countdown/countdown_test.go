package countdown

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ivlev/giftreveal/internal/testutil"
)

func TestComputeRemaining(t *testing.T) {
	target := time.Date(2025, time.February, 6, 23, 59, 59, 0, time.Local)

	tests := []struct {
		name string
		now  time.Time
		want State
	}{
		{
			name: "one of each unit",
			now:  target.Add(-(24*time.Hour + time.Hour + time.Minute + time.Second)),
			want: State{Days: 1, Hours: 1, Minutes: 1, Seconds: 1},
		},
		{
			name: "sub-second remainder truncates",
			now:  target.Add(-1500 * time.Millisecond),
			want: State{Seconds: 1},
		},
		{
			name: "less than a millisecond left",
			now:  target.Add(-500 * time.Microsecond),
			want: State{},
		},
		{
			name: "at target",
			now:  target,
			want: State{Expired: true},
		},
		{
			name: "after target",
			now:  target.Add(72 * time.Hour),
			want: State{Expired: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRemaining(target, tt.now)
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestComputeRemainingReconstructs(t *testing.T) {
	target := time.Date(2025, time.February, 6, 23, 59, 59, 0, time.Local)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		// whole-second deltas so the breakdown is exact
		delta := time.Duration(1+r.Int63n(90*24*3600)) * time.Second
		got := ComputeRemaining(target, target.Add(-delta))
		if got.Expired {
			t.Fatalf("delta %v: unexpectedly expired", delta)
		}
		if got.Milliseconds() != delta.Milliseconds() {
			t.Fatalf("delta %v: reconstructed %dms, want %dms", delta, got.Milliseconds(), delta.Milliseconds())
		}
		if got.Hours > 23 || got.Minutes > 59 || got.Seconds > 59 {
			t.Fatalf("delta %v: component out of range %+v", delta, got)
		}
	}
}

func TestTimerTicksAndStops(t *testing.T) {
	c := testutil.FixedClock()
	target := c.Now().Add(10 * time.Second)

	var seen []State
	timer := NewTimer(c, target, func(s State) { seen = append(seen, s) })
	timer.Start()

	if got := timer.State(); got.Seconds != 10 {
		t.Fatalf("Expected 10s remaining at start, got %+v", got)
	}

	c.Advance(3 * time.Second)
	if got := timer.State(); got.Seconds != 7 {
		t.Errorf("Expected 7s after 3 ticks, got %+v", got)
	}
	if len(seen) != 4 {
		t.Errorf("Expected 4 notifications, got %d", len(seen))
	}

	timer.Stop()
	before := len(seen)
	c.Advance(5 * time.Second)
	if len(seen) != before {
		t.Errorf("Tick fired after Stop: %d notifications, want %d", len(seen), before)
	}
	if got := timer.State(); got.Seconds != 7 {
		t.Errorf("State changed after Stop: %+v", got)
	}
	if c.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", c.Pending())
	}
}

func TestTimerPinsAtExpiry(t *testing.T) {
	c := testutil.FixedClock()
	timer := NewTimer(c, c.Now().Add(2*time.Second), nil)
	timer.Start()

	c.Advance(5 * time.Second)
	got := timer.State()
	if !got.Expired || got.Milliseconds() != 0 {
		t.Errorf("Expected pinned expired state, got %+v", got)
	}
	if c.Pending() != 0 {
		t.Errorf("Expected tick to be cancelled after expiry, %d pending", c.Pending())
	}
	if !timer.Running() {
		t.Error("Expired timer should still report running until stopped")
	}
}

func TestTimerStartsExpired(t *testing.T) {
	c := testutil.FixedClock()
	timer := NewTimer(c, c.Now().Add(-time.Hour), nil)
	timer.Start()
	if !timer.State().Expired {
		t.Error("Expected expired state for a past target")
	}
	if c.Pending() != 0 {
		t.Errorf("Expected no tick for a past target, %d pending", c.Pending())
	}
}
