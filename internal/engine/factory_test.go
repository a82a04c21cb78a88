package engine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/content"
	"github.com/ivlev/giftreveal/internal/director"
)

func TestFactorySessions(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "voucher.yaml")
	doc := content.Spa()
	doc.Recipient = "Para Lucía"
	if err := content.Write(doc, docPath); err != nil {
		t.Fatalf("Write content failed: %v", err)
	}

	scPath := filepath.Join(dir, "scroll.yaml")
	sc, _ := director.DefaultScenario(config.VariantScroll)
	sc.ScrollMultiple = 5
	if err := director.WriteScenario(sc, scPath); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	cfg := &config.Config{
		Variant:         config.VariantTimed,
		CountdownTarget: "2025-02-06T23:59:59",
		ContentPath:     docPath,
		ScenarioPath:    scPath,
		VoucherQR:       true,
	}
	logger, _ := logtest.NewNullLogger()
	f, err := NewFactory(cfg, nil, logger)
	if err != nil {
		t.Fatalf("NewFactory failed: %v", err)
	}

	if got := f.Document(config.VariantClick).Recipient; got != "Para Lucía" {
		t.Errorf("Expected loaded document, got recipient %q", got)
	}
	if s, _ := f.Scenario(config.VariantScroll); s.ScrollMultiple != 5 {
		t.Errorf("Expected loaded scroll scenario, got multiple %v", s.ScrollMultiple)
	}
	if s, _ := f.Scenario(config.VariantTimed); len(s.Cues) != 4 {
		t.Errorf("Expected default timed scenario, got %+v", s)
	}

	for _, v := range config.Variants() {
		t.Run(string(v), func(t *testing.T) {
			s, err := f.NewSession(v, 1440, nil, nil)
			if err != nil {
				t.Fatalf("NewSession failed: %v", err)
			}
			defer s.Teardown()

			asset, ok := s.Download(context.Background())
			if !ok {
				t.Fatal("Download failed")
			}
			img, err := png.Decode(bytes.NewReader(asset.Data))
			if err != nil {
				t.Fatalf("Decoding voucher failed: %v", err)
			}
			profile, _ := config.ProfileFor(v)
			if img.Bounds().Dy() != profile.CanvasHeight {
				t.Errorf("Expected height %d, got %d", profile.CanvasHeight, img.Bounds().Dy())
			}
		})
	}

	if _, err := f.NewSession("swipe", 1440, nil, nil); err == nil {
		t.Error("Expected error for unknown variant")
	}
}

func TestFactoryStamp(t *testing.T) {
	dir := t.TempDir()
	stampPath := filepath.Join(dir, "stamp.png")
	stamp := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	draw.Draw(stamp, stamp.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, stamp); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stampPath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{CountdownTarget: "2025-02-06T23:59:59", StampPath: stampPath}
	logger, _ := logtest.NewNullLogger()
	f, err := NewFactory(cfg, nil, logger)
	if err != nil {
		t.Fatalf("NewFactory failed: %v", err)
	}
	s, err := f.NewSession(config.VariantClick, 1440, nil, nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Teardown()

	asset, ok := s.Download(context.Background())
	if !ok {
		t.Fatal("Download failed")
	}
	img, err := png.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		t.Fatal(err)
	}
	// The stamp sits 40px from the bottom-right corner.
	b := img.Bounds()
	r, g, bl, _ := img.At(b.Max.X-65, b.Max.Y-65).RGBA()
	if r>>8 > 10 || g>>8 > 10 || bl>>8 > 10 {
		t.Errorf("Expected black stamp pixel, got %d,%d,%d", r>>8, g>>8, bl>>8)
	}

	cfg.StampPath = filepath.Join(dir, "missing.png")
	if _, err := NewFactory(cfg, nil, logger); err == nil {
		t.Error("Expected error for missing stamp")
	}
}
