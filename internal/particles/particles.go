package particles

import (
	"math/rand"
	"time"

	"github.com/ivlev/giftreveal/internal/config"
)

// WidthClass is the viewport-width bucket that selects the particle count.
type WidthClass int

const (
	Wide WidthClass = iota
	Narrow
)

func (c WidthClass) String() string {
	if c == Narrow {
		return "narrow"
	}
	return "wide"
}

// ClassFor buckets a viewport width against the mobile breakpoint.
func ClassFor(viewportWidth int) WidthClass {
	if viewportWidth < config.MobileBreakpoint {
		return Narrow
	}
	return Wide
}

// Descriptor drives one looping ambient particle. Immutable once generated.
type Descriptor struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`        // horizontal position, 0-100 viewport units
	Y        float64 `json:"y"`        // vertical seed, 0-100
	Duration float64 `json:"duration"` // seconds per cycle
	Delay    float64 `json:"delay"`    // seconds before the first cycle
}

// Cycle returns the animation period.
func (d Descriptor) Cycle() time.Duration {
	return time.Duration(d.Duration * float64(time.Second))
}

// Ranges bounds the uniform draws of a generation.
type Ranges struct {
	MinDuration float64
	MaxDuration float64
	MaxDelay    float64
}

// RangesFor extracts the particle ranges of a variant profile.
func RangesFor(p config.Profile) Ranges {
	return Ranges{MinDuration: p.MinDuration, MaxDuration: p.MaxDuration, MaxDelay: p.MaxDelay}
}

// Count selects the particle count of a profile for a width class.
func Count(p config.Profile, class WidthClass) int {
	if class == Narrow {
		return p.ParticlesNarrow
	}
	return p.ParticlesWide
}

// Generate draws count descriptors with ids 0..count-1. Every field comes from
// an independent uniform distribution. A nil r uses a time-seeded source.
func Generate(count int, rg Ranges, r *rand.Rand) []Descriptor {
	if count <= 0 {
		return nil
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	out := make([]Descriptor, count)
	for i := range out {
		out[i] = Descriptor{
			ID:       i,
			X:        r.Float64() * 100,
			Y:        r.Float64() * 100,
			Duration: rg.MinDuration + r.Float64()*(rg.MaxDuration-rg.MinDuration),
			Delay:    r.Float64() * rg.MaxDelay,
		}
	}
	return out
}

// GenerateFor is Generate with the count and ranges taken from a profile.
func GenerateFor(p config.Profile, viewportWidth int, r *rand.Rand) []Descriptor {
	return Generate(Count(p, ClassFor(viewportWidth)), RangesFor(p), r)
}
