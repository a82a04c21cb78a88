package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ivlev/giftreveal/internal/clock"
	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/content"
	"github.com/ivlev/giftreveal/internal/countdown"
	"github.com/ivlev/giftreveal/internal/director"
	"github.com/ivlev/giftreveal/internal/effects"
	"github.com/ivlev/giftreveal/internal/particles"
	"github.com/ivlev/giftreveal/internal/prefs"
	"github.com/ivlev/giftreveal/internal/renderer"
	"github.com/ivlev/giftreveal/internal/share"
)

var (
	// ErrTornDown is returned by operations on a session after Teardown.
	ErrTornDown = errors.New("session torn down")
	// ErrUnsupported is returned for an operation the variant does not have.
	ErrUnsupported = errors.New("operation not supported by variant")
	// ErrNotStarted is returned for operations only available after the
	// welcome stage.
	ErrNotStarted = errors.New("reveal not started")
	// ErrNoPreferences is returned when the session has no preference handle.
	ErrNoPreferences = errors.New("no preference store")
)

// VoucherRenderer produces the downloadable voucher.
type VoucherRenderer interface {
	Render(ctx context.Context, doc *content.Document, spec renderer.Spec) (*renderer.Asset, error)
}

// Options configure a Session.
type Options struct {
	Strategy      director.Strategy
	Profile       config.Profile
	Clock         clock.Clock
	ViewportWidth int
	// CountdownTarget is used by variants whose profile enables a countdown.
	CountdownTarget time.Time
	Document        *content.Document
	Renderer        VoucherRenderer
	Preferences     *prefs.Preferences
	Notifier        Notifier
	Effect          effects.Effect
	ShareMessage    string
	// Rand seeds particle generation; nil uses a time-seeded source.
	Rand *rand.Rand
	// OnChange is called after every timer-driven state change (stage cue,
	// countdown tick). It runs on the timer goroutine.
	OnChange func()
	Logger   logrus.FieldLogger
}

// Session is one reveal session: from start until teardown. It owns every
// timer it schedules and cancels them all on Teardown.
type Session struct {
	id   uuid.UUID
	opts Options
	log  logrus.FieldLogger

	mu        sync.Mutex
	started   bool
	startedAt time.Time
	elapsed   time.Duration // offset of the last fired cue
	revealed  bool
	progress  float64
	particles []particles.Descriptor
	countdown *countdown.Timer
	timers    clock.Group
	tornDown  bool
}

// NewSession validates opts and creates an idle session in the welcome stage.
func NewSession(opts Options) (*Session, error) {
	if opts.Strategy == nil {
		return nil, fmt.Errorf("session needs a strategy")
	}
	if opts.Profile.Variant != opts.Strategy.Variant() {
		return nil, fmt.Errorf("profile %s does not match strategy %s", opts.Profile.Variant, opts.Strategy.Variant())
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Document == nil {
		opts.Document = content.ForVariant(opts.Profile.Variant)
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Effect == nil {
		opts.Effect = effects.DefaultRise()
	}
	if opts.ShareMessage == "" {
		opts.ShareMessage = share.Message
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = config.MobileBreakpoint
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	id := uuid.New()
	return &Session{
		id:   id,
		opts: opts,
		log: opts.Logger.WithFields(logrus.Fields{
			"session": id.String(),
			"variant": opts.Profile.Variant,
		}),
	}, nil
}

func (s *Session) ID() string { return s.id.String() }

func (s *Session) Variant() config.Variant { return s.opts.Profile.Variant }

// Document is the voucher content shown by the reveal.
func (s *Session) Document() *content.Document { return s.opts.Document }

// Start begins the session. The timed variant schedules its stage cues and
// starts the ambient particles; the scroll variant starts the particles;
// the click variant waits for Trigger. Start is single-shot and returns
// false when nothing changed.
func (s *Session) Start() (bool, error) {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return false, ErrTornDown
	}
	if s.started {
		s.mu.Unlock()
		return false, nil
	}
	s.started = true
	s.startedAt = s.opts.Clock.Now()

	notify := false
	switch s.Variant() {
	case config.VariantTimed:
		for _, cue := range s.opts.Strategy.Cues() {
			s.schedule(cue)
		}
		s.regenerateParticles()
		notify = true
	case config.VariantScroll:
		s.regenerateParticles()
	}
	s.mu.Unlock()

	s.log.Debug("session started")
	if notify {
		s.opts.Notifier.Notify(revealStarted)
	}
	return true, nil
}

// schedule arms one cue. Caller holds s.mu.
func (s *Session) schedule(cue director.Cue) {
	at := time.Duration(cue.At * float64(time.Second))
	s.timers.Add(s.opts.Clock.AfterFunc(at, func() {
		s.mu.Lock()
		if s.tornDown {
			s.mu.Unlock()
			return
		}
		if at > s.elapsed {
			s.elapsed = at
		}
		s.mu.Unlock()

		s.log.WithField("stage", cue.Stage).Debug("stage cue fired")
		s.changed()
	}))
}

// Trigger performs the single reveal of the click variant. Only the first
// call changes state; later calls return false.
func (s *Session) Trigger() (bool, error) {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return false, ErrTornDown
	}
	if s.Variant() != config.VariantClick {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: trigger on %s", ErrUnsupported, s.Variant())
	}
	if s.revealed {
		s.mu.Unlock()
		return false, nil
	}
	s.revealed = true
	if !s.started {
		s.started = true
		s.startedAt = s.opts.Clock.Now()
	}
	s.regenerateParticles()
	var cd *countdown.Timer
	if s.opts.Profile.Countdown {
		cd = countdown.NewTimer(s.opts.Clock, s.opts.CountdownTarget, func(countdown.State) { s.changed() })
		s.countdown = cd
	}
	s.mu.Unlock()

	if cd != nil {
		cd.Start()
	}
	s.log.Debug("revealed")
	s.opts.Notifier.Notify(revealStarted)
	return true, nil
}

// Scroll records the normalized scroll progress of the scroll variant.
// Values are clamped to [0,1]; both directions are allowed.
func (s *Session) Scroll(progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tornDown {
		return ErrTornDown
	}
	if s.Variant() != config.VariantScroll {
		return fmt.Errorf("%w: scroll on %s", ErrUnsupported, s.Variant())
	}
	switch {
	case progress < 0:
		progress = 0
	case progress > 1:
		progress = 1
	}
	s.progress = progress
	return nil
}

// ScrollTo converts a raw scroll offset within a viewport into progress.
// The region height comes from the scenario when it sets one.
func (s *Session) ScrollTo(offset, viewportHeight float64) error {
	multiple := s.opts.Profile.ScrollMultiple
	if ss, ok := s.opts.Strategy.(*director.ScrollStrategy); ok && ss.Multiple() > 0 {
		multiple = ss.Multiple()
	}
	return s.Scroll(director.ScrollProgress(offset, viewportHeight, multiple))
}

// regenerateParticles draws a fresh particle set. Caller holds s.mu.
func (s *Session) regenerateParticles() {
	s.particles = particles.GenerateFor(s.opts.Profile, s.opts.ViewportWidth, s.opts.Rand)
}

func (s *Session) input() director.Input {
	return director.Input{
		Started:  s.started,
		Elapsed:  s.elapsed,
		Revealed: s.revealed,
		Progress: s.progress,
	}
}

// Frame returns what is visible now. After teardown the last frame is kept.
func (s *Session) Frame() director.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Strategy.Frame(s.input())
}

// Particles returns the current particle set, empty before the reveal.
func (s *Session) Particles() []particles.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]particles.Descriptor(nil), s.particles...)
}

// Poses samples every particle's motion at the current clock time.
func (s *Session) Poses() []effects.Pose {
	s.mu.Lock()
	ps := append([]particles.Descriptor(nil), s.particles...)
	t := s.opts.Clock.Now().Sub(s.startedAt)
	s.mu.Unlock()

	poses := make([]effects.Pose, len(ps))
	for i, p := range ps {
		poses[i] = s.opts.Effect.At(p, t)
	}
	return poses
}

// Countdown returns the countdown state once it is running.
func (s *Session) Countdown() (countdown.State, bool) {
	s.mu.Lock()
	cd := s.countdown
	s.mu.Unlock()
	if cd == nil {
		return countdown.State{}, false
	}
	return cd.State(), true
}

// ToggleMusic flips the persisted music flag. It is only available once the
// reveal has left the welcome stage.
func (s *Session) ToggleMusic(ctx context.Context) (bool, error) {
	s.mu.Lock()
	torn, active := s.tornDown, s.active()
	s.mu.Unlock()
	switch {
	case torn:
		return false, ErrTornDown
	case s.opts.Preferences == nil:
		return false, ErrNoPreferences
	case !active:
		return false, ErrNotStarted
	}
	return s.opts.Preferences.ToggleMusic(ctx)
}

// MusicEnabled reports the persisted music flag.
func (s *Session) MusicEnabled() bool {
	if s.opts.Preferences == nil {
		return false
	}
	return s.opts.Preferences.MusicEnabled()
}

// active reports whether the session has left the welcome stage. Caller
// holds s.mu.
func (s *Session) active() bool {
	if s.Variant() == config.VariantClick {
		return s.revealed
	}
	return s.started
}

// Download renders the voucher. Any failure is silent: no asset, no
// notification, no retry.
func (s *Session) Download(ctx context.Context) (*renderer.Asset, bool) {
	s.mu.Lock()
	torn := s.tornDown
	s.mu.Unlock()
	if torn || s.opts.Renderer == nil {
		return nil, false
	}

	asset, err := s.opts.Renderer.Render(ctx, s.opts.Document, renderer.SpecFor(s.opts.Profile))
	if err != nil {
		s.log.WithError(err).Debug("voucher render failed")
		return nil, false
	}
	s.opts.Notifier.Notify(voucherSaved)
	return asset, true
}

// ShareLink returns the outbound compose link for the share message.
func (s *Session) ShareLink() string {
	return share.BuildShareLink(s.opts.ShareMessage)
}

// Teardown cancels every pending cue and the countdown tick. State is frozen
// afterwards.
func (s *Session) Teardown() error {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return ErrTornDown
	}
	s.tornDown = true
	cd := s.countdown
	s.mu.Unlock()

	s.timers.StopAll()
	if cd != nil {
		cd.Stop()
	}
	s.log.Debug("session torn down")
	return nil
}

// TornDown reports whether Teardown has run.
func (s *Session) TornDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tornDown
}

func (s *Session) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}

// Snapshot is a serializable view of a session.
type Snapshot struct {
	ID           string           `json:"id"`
	Variant      config.Variant   `json:"variant"`
	Frame        director.Frame   `json:"frame"`
	Particles    int              `json:"particles"`
	Countdown    *countdown.State `json:"countdown,omitempty"`
	MusicEnabled bool             `json:"music_enabled"`
	TornDown     bool             `json:"torn_down"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:           s.ID(),
		Variant:      s.Variant(),
		Frame:        s.Frame(),
		MusicEnabled: s.MusicEnabled(),
		TornDown:     s.TornDown(),
	}
	snap.Particles = len(s.Particles())
	if st, ok := s.Countdown(); ok {
		snap.Countdown = &st
	}
	return snap
}
