package player

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/countdown"
	"github.com/ivlev/giftreveal/internal/director"
	"github.com/ivlev/giftreveal/internal/engine"
	"github.com/ivlev/giftreveal/internal/prefs"
	"github.com/ivlev/giftreveal/internal/renderer"
	"github.com/ivlev/giftreveal/internal/system"
	"github.com/ivlev/giftreveal/internal/testutil"
)

func newPlayer(t *testing.T, v config.Variant) (*Player, tcell.SimulationScreen, *testutil.FakeClock) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(120, 40)
	t.Cleanup(screen.Fini)

	logger, _ := logtest.NewNullLogger()
	p := New(screen, t.TempDir(), logger)

	sc, _ := director.DefaultScenario(v)
	st, err := director.NewStrategy(sc)
	if err != nil {
		t.Fatalf("NewStrategy failed: %v", err)
	}
	profile, _ := config.ProfileFor(v)
	pr, _ := prefs.NewPreferences(context.Background(), prefs.NewMemoryStore())
	r, err := renderer.New(system.NewImagePool(1), renderer.Options{})
	if err != nil {
		t.Fatalf("renderer.New failed: %v", err)
	}
	clk := testutil.FixedClock()

	s, err := engine.NewSession(engine.Options{
		Strategy:        st,
		Profile:         profile,
		Clock:           clk,
		ViewportWidth:   1440,
		CountdownTarget: clk.Now().Add(26 * time.Hour),
		Renderer:        r,
		Preferences:     pr,
		Notifier:        p,
		Rand:            rand.New(rand.NewSource(3)),
		Logger:          logger,
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	p.Attach(s)
	return p, screen, clk
}

func screenText(s tcell.SimulationScreen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestPlayerTimed(t *testing.T) {
	p, screen, clk := newPlayer(t, config.VariantTimed)

	p.Draw()
	if !strings.Contains(screenText(screen), "Descubrir Regalo") {
		t.Error("Expected welcome screen")
	}

	p.HandleKey(tcell.KeyEnter, 0)
	if !strings.Contains(p.Status(), "¡Preparando tu regalo!") {
		t.Errorf("Expected start notification, got %q", p.Status())
	}

	steps := []struct {
		advance time.Duration
		want    string
	}{
		{0, "Noelia Rodríguez Fernández"},
		{3 * time.Second, "¡Feliz Día de Reyes!"},
		{3 * time.Second, "Un Día de Spa Inolvidable."},
		{3 * time.Second, "Duración total: 60 minutos."},
	}
	for _, step := range steps {
		clk.Advance(step.advance)
		p.Draw()
		if text := screenText(screen); !strings.Contains(text, step.want) {
			t.Errorf("After +%v expected %q on screen", step.advance, step.want)
		}
	}

	if !p.HandleKey(tcell.KeyRune, 'm') || p.Status() != "Música activada" {
		t.Errorf("Expected music on, got %q", p.Status())
	}
	if p.HandleKey(tcell.KeyRune, 'q') {
		t.Error("q should quit")
	}
}

func TestPlayerClickCountdown(t *testing.T) {
	p, screen, _ := newPlayer(t, config.VariantClick)

	p.HandleKey(tcell.KeyRune, 'm')
	if p.Status() != "" {
		t.Errorf("Music toggle must be inactive before the reveal, got %q", p.Status())
	}

	p.HandleKey(tcell.KeyEnter, 0)
	p.Draw()
	text := screenText(screen)
	if !strings.Contains(text, "Melchor, Gaspar y Baltasar.") {
		t.Error("Expected parchment signature")
	}
	if !strings.Contains(text, "Válido durante 1 días 02:00:00") {
		t.Errorf("Expected countdown on screen:\n%s", text)
	}
}

func TestPlayerScroll(t *testing.T) {
	p, screen, _ := newPlayer(t, config.VariantScroll)
	p.HandleKey(tcell.KeyEnter, 0)

	for i := 0; i < 11; i++ {
		p.HandleKey(tcell.KeyDown, 0)
	}
	p.Draw()
	text := screenText(screen)
	if !strings.Contains(text, "Un Día de Spa Inolvidable.") {
		t.Errorf("Expected gift section at 55%%:\n%s", text)
	}
	if strings.Contains(text, "Con todo el cariño,") {
		t.Error("Details section should still be hidden")
	}

	for i := 0; i < 30; i++ {
		p.HandleKey(tcell.KeyUp, 0)
	}
	if got := p.session.Frame().Progress; got != 0 {
		t.Errorf("Expected progress clamped at 0, got %f", got)
	}
}

func TestPlayerDownloadAndShare(t *testing.T) {
	p, _, _ := newPlayer(t, config.VariantTimed)

	p.HandleKey(tcell.KeyRune, 'd')
	if p.Status() != "Vale descargado: El vale se ha guardado en tu dispositivo" {
		t.Errorf("Unexpected status %q", p.Status())
	}
	if _, err := os.Stat(filepath.Join(p.outDir, "vale-dia-spa-reyes-magos.png")); err != nil {
		t.Errorf("Voucher not written: %v", err)
	}

	p.HandleKey(tcell.KeyRune, 's')
	if !strings.HasPrefix(p.Status(), "https://wa.me/?text=") {
		t.Errorf("Expected share link, got %q", p.Status())
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		st   countdown.State
		want string
	}{
		{countdown.State{Days: 3, Hours: 4, Minutes: 5, Seconds: 6}, "Válido durante 3 días 04:05:06"},
		{countdown.State{Expired: true}, "El vale ha expirado"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.st); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
