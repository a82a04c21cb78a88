package director

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/giftreveal/internal/config"
)

// ErrUnknownVariant is returned for a scenario whose variant has no strategy.
var ErrUnknownVariant = errors.New("unknown reveal variant")

// DefaultScenario returns the built-in scenario of a variant.
func DefaultScenario(v config.Variant) (*Scenario, error) {
	switch v {
	case config.VariantTimed:
		stages := []Stage{StageRecipient, StageGreeting, StageGift, StageDetails}
		cues := make([]Cue, len(stages))
		for i, st := range stages {
			cues[i] = Cue{Stage: st, At: config.StageOffsets[i].Seconds()}
		}
		return &Scenario{Version: "1.0", Variant: v, Cues: cues}, nil
	case config.VariantClick:
		return &Scenario{Version: "1.0", Variant: v}, nil
	case config.VariantScroll:
		profile, _ := config.ProfileFor(v)
		return &Scenario{
			Version: "1.0",
			Variant: v,
			Sections: []Section{
				{Stage: StageRecipient, Start: 0.0, End: 0.15},
				{Stage: StageGreeting, Start: 0.2, End: 0.4},
				{Stage: StageGift, Start: 0.45, End: 0.65},
				{Stage: StageDetails, Start: 0.7, End: 0.9},
			},
			ScrollMultiple: profile.ScrollMultiple,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// Validate checks ordering and bounds.
func (s *Scenario) Validate() error {
	switch s.Variant {
	case config.VariantTimed:
		if len(s.Cues) == 0 {
			return fmt.Errorf("timed scenario has no cues")
		}
		for i, c := range s.Cues {
			if c.At < 0 {
				return fmt.Errorf("cue %d (%s) has negative offset %.2f", i, c.Stage, c.At)
			}
			if i > 0 && c.At <= s.Cues[i-1].At {
				return fmt.Errorf("cue %d (%s) is not after cue %d", i, c.Stage, i-1)
			}
		}
	case config.VariantScroll:
		if len(s.Sections) == 0 {
			return fmt.Errorf("scroll scenario has no sections")
		}
		if s.ScrollMultiple < 1 {
			return fmt.Errorf("scroll_multiple must be at least 1, got %.2f", s.ScrollMultiple)
		}
		for i, sec := range s.Sections {
			if sec.Start < 0 || sec.End > 1 || sec.End <= sec.Start {
				return fmt.Errorf("section %d (%s) has invalid window [%.2f, %.2f]", i, sec.Stage, sec.Start, sec.End)
			}
		}
	case config.VariantClick:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, s.Variant)
	}
	return nil
}

// ScrollProgress normalizes a scroll offset within a region that is multiple
// viewport heights tall. The result is clamped to [0,1].
func ScrollProgress(offset, viewportHeight, multiple float64) float64 {
	scrollable := viewportHeight*multiple - viewportHeight
	if scrollable <= 0 {
		return 0
	}
	return clamp01(offset / scrollable)
}

// GenerateScenarioPath creates a timestamped scenario filename in dir
func GenerateScenarioPath(dir string, v config.Variant) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scenario_%s_%s.yaml", v, timestamp))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
