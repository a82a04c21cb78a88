package director

import "github.com/ivlev/giftreveal/internal/config"

// Stage is a named point in the reveal sequence.
type Stage string

const (
	StageWelcome   Stage = "welcome"
	StageRecipient Stage = "recipient"
	StageGreeting  Stage = "greeting"
	StageGift      Stage = "gift"
	StageDetails   Stage = "details"
	StageRevealed  Stage = "revealed"
)

// Scenario describes how a reveal advances. Timed scenarios use Cues, scroll
// scenarios use Sections; click scenarios need neither.
type Scenario struct {
	Version        string         `yaml:"version"`
	Variant        config.Variant `yaml:"variant"`
	Cues           []Cue          `yaml:"cues,omitempty"`
	Sections       []Section      `yaml:"sections,omitempty"`
	ScrollMultiple float64        `yaml:"scroll_multiple,omitempty"` // region height in viewports
}

// Cue is a scheduled stage transition.
type Cue struct {
	Stage Stage   `yaml:"stage"`
	At    float64 `yaml:"at"` // seconds from session start
}

// Section is a scroll-mapped content block and its visibility window over
// normalized scroll progress.
type Section struct {
	Stage Stage   `yaml:"stage"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}
