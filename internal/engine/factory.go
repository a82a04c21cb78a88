package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/giftreveal/internal/clock"
	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/content"
	"github.com/ivlev/giftreveal/internal/director"
	"github.com/ivlev/giftreveal/internal/prefs"
	"github.com/ivlev/giftreveal/internal/renderer"
	"github.com/ivlev/giftreveal/internal/share"
	"github.com/ivlev/giftreveal/internal/source"
	"github.com/ivlev/giftreveal/internal/system"
)

// Stamp edges in pixels.
const (
	qrStampSize  = 200
	maxStampSide = 400
)

// Factory assembles sessions from process configuration.
type Factory struct {
	Config      *config.Config
	Clock       clock.Clock
	Renderer    VoucherRenderer
	Preferences *prefs.Preferences
	Logger      logrus.FieldLogger

	target   time.Time
	document *content.Document
	scenario *director.Scenario
}

// NewFactory loads the optional content and scenario files named by cfg and
// builds the voucher renderer.
func NewFactory(cfg *config.Config, p *prefs.Preferences, log logrus.FieldLogger) (*Factory, error) {
	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}
	f := &Factory{Config: cfg, Clock: clock.Real{}, Preferences: p, Logger: log, target: target}

	if cfg.ContentPath != "" {
		if f.document, err = content.Load(cfg.ContentPath); err != nil {
			return nil, err
		}
		fmt.Printf("[*] Voucher content: %s\n", cfg.ContentPath)
	}
	if cfg.ScenarioPath != "" {
		if f.scenario, err = director.ReadScenario(cfg.ScenarioPath); err != nil {
			return nil, fmt.Errorf("reading scenario: %w", err)
		}
		fmt.Printf("[*] Scenario: %s (%s)\n", cfg.ScenarioPath, f.scenario.Variant)
	}

	r, err := renderer.New(system.SharedPool(), renderer.Options{})
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.StampPath != "":
		stamp, err := source.LoadStamp(cfg.StampPath, maxStampSide)
		if err != nil {
			return nil, fmt.Errorf("loading stamp: %w", err)
		}
		r = r.WithStamp(stamp)
		fmt.Printf("[*] Voucher stamp: %s\n", cfg.StampPath)
	case cfg.VoucherQR:
		stamp, err := share.QRCode(share.BuildShareLink(share.Message), qrStampSize)
		if err != nil {
			return nil, err
		}
		r = r.WithStamp(stamp)
	}
	f.Renderer = r
	return f, nil
}

// Document returns the voucher document for v.
func (f *Factory) Document(v config.Variant) *content.Document {
	if f.document != nil {
		return f.document
	}
	return content.ForVariant(v)
}

// Scenario returns the loaded scenario when it matches v, else the default.
func (f *Factory) Scenario(v config.Variant) (*director.Scenario, error) {
	if f.scenario != nil && f.scenario.Variant == v {
		return f.scenario, nil
	}
	return director.DefaultScenario(v)
}

// NewSession creates a session of variant v for a viewport width.
func (f *Factory) NewSession(v config.Variant, viewportWidth int, n Notifier, onChange func()) (*Session, error) {
	profile, ok := config.ProfileFor(v)
	if !ok {
		return nil, fmt.Errorf("%w: %q", director.ErrUnknownVariant, v)
	}
	sc, err := f.Scenario(v)
	if err != nil {
		return nil, err
	}
	st, err := director.NewStrategy(sc)
	if err != nil {
		return nil, err
	}
	return NewSession(Options{
		Strategy:        st,
		Profile:         profile,
		Clock:           f.Clock,
		ViewportWidth:   viewportWidth,
		CountdownTarget: f.target,
		Document:        f.Document(v),
		Renderer:        f.Renderer,
		Preferences:     f.Preferences,
		Notifier:        n,
		OnChange:        onChange,
		Logger:          f.Logger,
	})
}
