package config

import "time"

// Variant selects one of the three interaction flavours of the reveal.
type Variant string

const (
	VariantTimed  Variant = "timed"
	VariantClick  Variant = "click"
	VariantScroll Variant = "scroll"
)

// Config holds process configuration. Values come from the environment
// (optionally seeded by a .env file) and may be overridden by CLI flags.
type Config struct {
	Variant Variant `env:"VARIANT" envDefault:"timed"`

	HTTPPort        int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort     int    `env:"METRICS_PORT" envDefault:"9090"`
	MetricsEndpoint string `env:"METRICS_ENDPOINT" envDefault:"/metrics"`

	PrefsBackend  string `env:"PREFS_BACKEND" envDefault:"file"` // memory, file, sqlite, redis
	PrefsPath     string `env:"PREFS_PATH" envDefault:"data/preferences.toml"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ContentPath  string `env:"CONTENT_PATH"`
	ScenarioPath string `env:"SCENARIO_PATH"`
	OutputDir    string `env:"OUTPUT_DIR" envDefault:"output"`

	CountdownTarget string `env:"COUNTDOWN_TARGET" envDefault:"2025-02-06T23:59:59"`

	VoucherQR bool   `env:"VOUCHER_QR" envDefault:"false"`
	StampPath string `env:"STAMP_PATH"` // PNG/JPEG file or directory; overrides VOUCHER_QR
	ShowStats bool   `env:"SHOW_STATS" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	BuildVersion string
}

// Profile carries the fixed per-variant constants. None of these are
// configurable at runtime.
type Profile struct {
	Variant Variant

	CanvasWidth  int
	CanvasHeight int
	Filename     string

	ParticlesNarrow int
	ParticlesWide   int
	MinDuration     float64 // seconds
	MaxDuration     float64
	MaxDelay        float64

	Countdown bool

	// ScrollMultiple is the scroll region height in viewport heights.
	ScrollMultiple float64
}

// MobileBreakpoint is the viewport width (px) below which a viewport is narrow.
const MobileBreakpoint = 768

// StageOffsets are the fixed timed-variant transition offsets from session start.
var StageOffsets = []time.Duration{0, 3 * time.Second, 6 * time.Second, 9 * time.Second}

var profiles = map[Variant]Profile{
	VariantTimed: {
		Variant:         VariantTimed,
		CanvasWidth:     1200,
		CanvasHeight:    1600,
		Filename:        "vale-dia-spa-reyes-magos.png",
		ParticlesNarrow: 20,
		ParticlesWide:   40,
		MinDuration:     5,
		MaxDuration:     9,
		MaxDelay:        3,
	},
	VariantClick: {
		Variant:         VariantClick,
		CanvasWidth:     1200,
		CanvasHeight:    1800,
		Filename:        "pergamino-reyes-magos.png",
		ParticlesNarrow: 15,
		ParticlesWide:   30,
		MinDuration:     6,
		MaxDuration:     10,
		MaxDelay:        3,
		Countdown:       true,
	},
	VariantScroll: {
		Variant:         VariantScroll,
		CanvasWidth:     1200,
		CanvasHeight:    1600,
		Filename:        "vale-dia-spa-reyes-magos.png",
		ParticlesNarrow: 15,
		ParticlesWide:   30,
		MinDuration:     4,
		MaxDuration:     8,
		MaxDelay:        2,
		ScrollMultiple:  4,
	},
}

// ProfileFor returns the fixed profile of a variant.
func ProfileFor(v Variant) (Profile, bool) {
	p, ok := profiles[v]
	return p, ok
}

// Variants lists the known variants in a stable order.
func Variants() []Variant {
	return []Variant{VariantTimed, VariantClick, VariantScroll}
}
