// Package player is a terminal front-end for one reveal session.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/countdown"
	"github.com/ivlev/giftreveal/internal/director"
	"github.com/ivlev/giftreveal/internal/engine"
	"github.com/ivlev/giftreveal/internal/system"
)

const (
	frameInterval = 100 * time.Millisecond
	scrollStep    = 0.05
	sparkle       = '✦'
)

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0x4A, 0x37, 0x28))
	styleAccent = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xB8, 0x86, 0x0B)).Bold(true)
	styleDim    = styleText.Dim(true)
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// Player draws a session on a tcell screen and maps keys to session
// operations.
type Player struct {
	screen  tcell.Screen
	session *engine.Session
	outDir  string
	log     logrus.FieldLogger

	mu     sync.Mutex
	status string
}

// New creates a player. Set it as the session's notifier so notifications
// show in the status line.
func New(screen tcell.Screen, outDir string, log logrus.FieldLogger) *Player {
	return &Player{screen: screen, outDir: outDir, log: log}
}

// Attach binds the session to play.
func (p *Player) Attach(s *engine.Session) { p.session = s }

// Notify implements engine.Notifier.
func (p *Player) Notify(n engine.Notification) {
	p.setStatus(n.Title + ": " + n.Description)
}

// Wake asks the event loop to redraw. Safe from any goroutine.
func (p *Player) Wake() {
	p.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (p *Player) setStatus(s string) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

// Status returns the status line.
func (p *Player) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run processes events until the viewer quits or ctx is done. The session
// is torn down on return.
func (p *Player) Run(ctx context.Context) error {
	if p.session == nil {
		return errors.New("player has no session")
	}
	defer p.session.Teardown()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !p.HandleEvent(ev) {
				return nil
			}
			p.Draw()
		case <-ticker.C:
			p.Draw()
		}
	}
}

// HandleEvent returns false when the viewer asked to quit.
func (p *Player) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

// HandleKey applies one key press.
func (p *Player) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		p.reveal()
	case tcell.KeyUp:
		p.scroll(-scrollStep)
	case tcell.KeyDown:
		p.scroll(scrollStep)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case 'm':
			p.toggleMusic()
		case 'd':
			p.download()
		case 's':
			p.setStatus(p.session.ShareLink())
		case 'j':
			p.scroll(scrollStep)
		case 'k':
			p.scroll(-scrollStep)
		}
	}
	return true
}

func (p *Player) reveal() {
	var err error
	if p.session.Variant() == config.VariantClick {
		_, err = p.session.Trigger()
	} else {
		_, err = p.session.Start()
	}
	if err != nil {
		p.setStatus(err.Error())
	}
}

func (p *Player) scroll(delta float64) {
	if p.session.Variant() != config.VariantScroll {
		return
	}
	p.session.Scroll(p.session.Frame().Progress + delta)
}

func (p *Player) toggleMusic() {
	on, err := p.session.ToggleMusic(context.Background())
	switch {
	case errors.Is(err, engine.ErrNotStarted):
		return
	case err != nil:
		p.setStatus(err.Error())
	case on:
		p.setStatus("Música activada")
	default:
		p.setStatus("Música desactivada")
	}
}

// download writes the voucher to outDir. Failures stay silent.
func (p *Player) download() {
	asset, ok := p.session.Download(context.Background())
	if !ok {
		return
	}
	if err := system.EnsureDirs(p.outDir); err != nil {
		p.log.WithError(err).Debug("creating output directory")
		return
	}
	path := filepath.Join(p.outDir, asset.Filename)
	if err := os.WriteFile(path, asset.Data, 0644); err != nil {
		p.log.WithError(err).Debug("writing voucher")
		return
	}
	p.log.WithField("path", path).Info("voucher saved")
}

// Draw renders the current frame.
func (p *Player) Draw() {
	p.screen.Clear()
	w, h := p.screen.Size()
	frame := p.session.Frame()

	if frame.Stage != director.StageWelcome {
		for _, pose := range p.session.Poses() {
			if !pose.Visible || pose.Opacity < 0.3 {
				continue
			}
			x, y := int(pose.X/100*float64(w)), int(pose.Y/100*float64(h))
			if x >= 0 && x < w && y >= 1 && y < h-1 {
				p.screen.SetContent(x, y, sparkle, nil, styleAccent)
			}
		}
	}

	lines := p.linesFor(frame)
	top := (h - len(lines)) / 2
	if top < 1 {
		top = 1
	}
	for i, l := range lines {
		drawCentered(p.screen, top+i, w, l.text, l.style)
	}

	drawText(p.screen, 0, 0, styleDim, fmt.Sprintf("%s · %s", p.session.Variant(), frame.Stage))
	if st := p.Status(); st != "" {
		drawText(p.screen, 0, h-1, styleStatus, st)
	}
	p.screen.Show()
}

type line struct {
	text  string
	style tcell.Style
}

func (p *Player) linesFor(f director.Frame) []line {
	doc := p.session.Document()
	switch f.Stage {
	case director.StageWelcome:
		hint := "[Enter] Descubrir Regalo"
		if p.session.Variant() == config.VariantScroll {
			hint = "[Enter] empezar · [↑/↓] desplazar"
		}
		return []line{
			{"Los Reyes Magos tienen un regalo especial para ti", styleAccent},
			{"", styleText},
			{hint, styleDim},
		}
	case director.StageRecipient:
		return []line{{doc.Recipient, styleAccent}}
	case director.StageGreeting:
		return []line{{doc.Headline, styleAccent}, {doc.Subtitle, styleText}}
	case director.StageGift:
		return []line{{doc.OfferTitle, styleAccent}}
	}

	if f.Variant == config.VariantScroll {
		return p.scrollLines(f)
	}

	out := p.detailLines()
	if st, ok := p.session.Countdown(); ok {
		out = append(out, line{"", styleText}, line{FormatCountdown(st), styleAccent})
	}
	return out
}

func (p *Player) detailLines() []line {
	doc := p.session.Document()
	out := []line{
		{doc.Recipient, styleText},
		{doc.Headline, styleAccent},
		{doc.Subtitle, styleText},
		{doc.OfferTitle, styleAccent},
	}
	for _, b := range doc.Benefits {
		text := b.Text
		if b.Indent {
			text = "  " + text
		}
		out = append(out, line{text, styleText})
	}
	if doc.Duration != "" {
		out = append(out, line{doc.Duration, styleText})
	}
	for i, s := range doc.Signature {
		st := styleText
		if i == len(doc.Signature)-1 {
			st = styleAccent
		}
		out = append(out, line{s, st})
	}
	return out
}

// scrollLines shows every section whose opacity is above zero, dimmed
// until fully visible.
func (p *Player) scrollLines(f director.Frame) []line {
	doc := p.session.Document()
	var out []line
	for _, sec := range f.Sections {
		if sec.Opacity <= 0 {
			continue
		}
		st := styleText
		if sec.Opacity < 1 {
			st = styleDim
		}
		switch sec.Stage {
		case director.StageRecipient:
			out = append(out, line{doc.Recipient, st})
		case director.StageGreeting:
			out = append(out, line{doc.Headline, st}, line{doc.Subtitle, st})
		case director.StageGift:
			out = append(out, line{doc.OfferTitle, st})
		case director.StageDetails:
			for _, l := range p.detailLines()[4:] {
				out = append(out, line{l.text, st})
			}
		}
		out = append(out, line{"", styleText})
	}
	out = append(out, line{fmt.Sprintf("%3.0f%%", f.Progress*100), styleDim})
	return out
}

// FormatCountdown renders a countdown state for display.
func FormatCountdown(st countdown.State) string {
	if st.Expired {
		return "El vale ha expirado"
	}
	return fmt.Sprintf("Válido durante %d días %02d:%02d:%02d", st.Days, st.Hours, st.Minutes, st.Seconds)
}

func drawCentered(s tcell.Screen, y, width int, text string, style tcell.Style) {
	n := len([]rune(text))
	x := (width - n) / 2
	if x < 0 {
		x = 0
	}
	drawText(s, x, y, style, text)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
