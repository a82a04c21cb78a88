package director

import (
	"fmt"
	"time"

	"github.com/ivlev/giftreveal/internal/config"
)

// Input is everything a strategy needs to decide what is visible.
type Input struct {
	Started  bool          // session start has happened (timed, scroll)
	Elapsed  time.Duration // since session start
	Revealed bool          // single-shot trigger has fired (click)
	Progress float64       // normalized scroll progress (scroll)
}

// SectionState is the visibility of one scroll-mapped section.
type SectionState struct {
	Stage   Stage   `json:"stage"`
	Opacity float64 `json:"opacity"`
}

// Frame is the visible state derived from an Input.
type Frame struct {
	Variant  config.Variant `json:"variant"`
	Stage    Stage          `json:"stage"`
	Revealed bool           `json:"revealed"`
	Progress float64        `json:"progress,omitempty"`
	Sections []SectionState `json:"sections,omitempty"`
}

// Strategy is the advance rule of one reveal variant.
type Strategy interface {
	Variant() config.Variant
	// Frame maps an input onto the visible state. It is pure.
	Frame(in Input) Frame
	// Cues lists the transitions to schedule at session start. Only the
	// timed strategy has any.
	Cues() []Cue
}

// NewStrategy builds the strategy for a scenario.
func NewStrategy(s *Scenario) (Strategy, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Variant {
	case config.VariantTimed:
		return &TimedStrategy{cues: append([]Cue(nil), s.Cues...)}, nil
	case config.VariantClick:
		return &ClickStrategy{}, nil
	case config.VariantScroll:
		return &ScrollStrategy{sections: append([]Section(nil), s.Sections...), multiple: s.ScrollMultiple}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, s.Variant)
	}
}

// TimedStrategy advances through a fixed cue list by elapsed time.
type TimedStrategy struct {
	cues []Cue
}

func (s *TimedStrategy) Variant() config.Variant { return config.VariantTimed }

func (s *TimedStrategy) Cues() []Cue { return append([]Cue(nil), s.cues...) }

func (s *TimedStrategy) Frame(in Input) Frame {
	f := Frame{Variant: config.VariantTimed, Stage: StageWelcome}
	if !in.Started {
		return f
	}
	f.Revealed = true
	f.Stage = s.StageAt(in.Elapsed)
	return f
}

// StageAt returns the stage of the last cue at or before elapsed.
func (s *TimedStrategy) StageAt(elapsed time.Duration) Stage {
	stage := StageWelcome
	sec := elapsed.Seconds()
	for _, c := range s.cues {
		if c.At > sec {
			break
		}
		stage = c.Stage
	}
	return stage
}

// ClickStrategy shows the content once the single trigger has fired.
type ClickStrategy struct{}

func (s *ClickStrategy) Variant() config.Variant { return config.VariantClick }

func (s *ClickStrategy) Cues() []Cue { return nil }

func (s *ClickStrategy) Frame(in Input) Frame {
	if in.Revealed {
		return Frame{Variant: config.VariantClick, Stage: StageRevealed, Revealed: true}
	}
	return Frame{Variant: config.VariantClick, Stage: StageWelcome}
}

// ScrollStrategy maps scroll progress onto per-section opacity.
type ScrollStrategy struct {
	sections []Section
	multiple float64
}

func (s *ScrollStrategy) Variant() config.Variant { return config.VariantScroll }

func (s *ScrollStrategy) Cues() []Cue { return nil }

// Multiple is the scroll region height in viewport heights.
func (s *ScrollStrategy) Multiple() float64 { return s.multiple }

func (s *ScrollStrategy) Frame(in Input) Frame {
	p := clamp01(in.Progress)
	f := Frame{
		Variant:  config.VariantScroll,
		Stage:    StageWelcome,
		Progress: p,
		Sections: make([]SectionState, len(s.sections)),
	}
	for i, sec := range s.sections {
		op := SectionOpacity(sec, p)
		f.Sections[i] = SectionState{Stage: sec.Stage, Opacity: op}
		if op > 0 {
			f.Stage = sec.Stage
			f.Revealed = true
		}
	}
	return f
}
