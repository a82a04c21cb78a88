package effects

import (
	"math"
	"math/rand"
	"time"

	"github.com/ivlev/giftreveal/internal/director"
	"github.com/ivlev/giftreveal/internal/particles"
)

// Pose is where a particle is drawn at one instant, in viewport units
// (0-100 on both axes, y grows downward) plus an opacity in [0,1].
type Pose struct {
	X       float64
	Y       float64
	Opacity float64
	Visible bool
}

// Effect animates a particle descriptor over time.
type Effect interface {
	At(p particles.Descriptor, t time.Duration) Pose
}

// Rise floats a particle from below the viewport to above it, fading in and
// then out, and repeats forever after the descriptor's delay.
type Rise struct {
	StartY float64 // below the bottom edge
	EndY   float64 // above the top edge
	Drift  float64 // max horizontal drift over one cycle
}

// DefaultRise matches the ambient sparkle motion: enter at 100vh, leave at
// -10vh, drifting up to ±10vw.
func DefaultRise() *Rise {
	return &Rise{StartY: 100, EndY: -10, Drift: 10}
}

var fade = []director.Keyframe{
	{At: 0, Value: 0},
	{At: 1.0 / 3, Value: 1},
	{At: 2.0 / 3, Value: 1},
	{At: 1, Value: 0},
}

func (e *Rise) At(p particles.Descriptor, t time.Duration) Pose {
	elapsed := t.Seconds() - p.Delay
	if elapsed < 0 || p.Duration <= 0 {
		return Pose{X: p.X, Y: e.StartY}
	}

	phase := math.Mod(elapsed, p.Duration) / p.Duration

	return Pose{
		X:       p.X + e.drift(p)*director.EaseInOutCubic(phase),
		Y:       e.StartY + (e.EndY-e.StartY)*phase,
		Opacity: director.InterpolateKeyframes(fade, phase, director.Linear),
		Visible: true,
	}
}

// drift is a per-particle horizontal offset derived from the id so it stays
// stable across frames.
func (e *Rise) drift(p particles.Descriptor) float64 {
	r := rand.New(rand.NewSource(int64(p.ID)*7919 + int64(p.X*1000)))
	return (r.Float64() - 0.5) * 2 * e.Drift
}
