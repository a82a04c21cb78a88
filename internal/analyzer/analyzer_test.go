package analyzer

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestContrastDetector(t *testing.T) {
	// Two light lines on a dark ground, which the ink detector cannot see.
	img := image.NewGray(image.Rect(0, 0, 200, 160))
	for i := range img.Pix {
		img.Pix[i] = 20
	}
	for _, top := range []int{40, 100} {
		for y := top; y < top+12; y++ {
			for x := 20; x < 180; x++ {
				img.SetGray(x, y, color.Gray{Y: 230})
			}
		}
	}

	detector := NewContrastDetector()
	blocks, err := detector.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}

	for i, b := range blocks {
		t.Logf("Block %d: %v (type: %s, confidence: %.2f)", i, b.Rect, b.Type, b.Confidence)
		if b.Type != "text" {
			t.Errorf("Block %d: expected text, got %s", i, b.Type)
		}
		if b.Rect.Dx() < 150 || b.Rect.Dy() > 20 {
			t.Errorf("Block %d has unexpected bounds %v", i, b.Rect)
		}
	}

	if n := len(Bands(blocks)); n != 2 {
		t.Errorf("Expected 2 bands, got %d", n)
	}

	// Offset bounds are reported in image coordinates.
	shifted := img.SubImage(image.Rect(0, 90, 200, 160))
	blocks, _ = detector.Detect(shifted)
	if len(blocks) != 1 || blocks[0].Rect.Min.Y < 90 {
		t.Errorf("Expected one block below y=90, got %+v", blocks)
	}
}

func TestWiden(t *testing.T) {
	row := []bool{false, false, false, false, true, false, false, false, false, false}
	got := widen(row, len(row), 1, 2)
	want := []bool{false, false, true, true, true, true, true, false, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("widen = %v, want %v", got, want)
		}
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"ink", false},
		{"contrast", false},
		{"", false}, // ink
		{"ocr", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if detector == nil {
					t.Error("Expected detector, got nil")
				}
			}
		})
	}
}

func paper(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xF0, G: 0xE0, B: 0xCC, A: 0xFF})
		}
	}
	return img
}

func ink(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, color.RGBA{R: 0x4A, G: 0x37, B: 0x28, A: 0xFF})
		}
	}
}

func TestInkDetector(t *testing.T) {
	img := paper(300, 400)
	ink(img, image.Rect(40, 50, 260, 80))
	// two strokes split by a small gap belong to the same line
	ink(img, image.Rect(60, 150, 240, 160))
	ink(img, image.Rect(60, 162, 240, 170))
	ink(img, image.Rect(100, 300, 200, 330))

	blocks, err := NewInkDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	want := []image.Rectangle{
		image.Rect(40, 50, 260, 80),
		image.Rect(60, 150, 240, 170),
		image.Rect(100, 300, 200, 330),
	}
	if len(blocks) != len(want) {
		t.Fatalf("Expected %d blocks, got %d: %v", len(want), len(blocks), blocks)
	}
	for i, b := range blocks {
		if b.Rect != want[i] {
			t.Errorf("Block %d: expected %v, got %v", i, want[i], b.Rect)
		}
		if b.Type != "text" {
			t.Errorf("Block %d: expected text, got %s", i, b.Type)
		}
	}
}

func TestBands(t *testing.T) {
	blocks := []Block{
		{Rect: image.Rect(0, 100, 10, 120)},
		{Rect: image.Rect(0, 10, 10, 30)},
		{Rect: image.Rect(50, 110, 60, 140)},
	}
	bands := Bands(blocks)
	want := []Band{{10, 30}, {100, 140}}
	if len(bands) != len(want) {
		t.Fatalf("Expected %d bands, got %v", len(want), bands)
	}
	for i := range want {
		if bands[i] != want[i] {
			t.Errorf("Band %d: expected %v, got %v", i, want[i], bands[i])
		}
	}
	if Bands(nil) != nil {
		t.Error("Expected nil bands for no blocks")
	}
}

func TestVerify(t *testing.T) {
	img := paper(200, 300)
	ink(img, image.Rect(20, 60, 180, 90))

	rep, err := Verify(NewInkDetector(), img, 40)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(rep.Bands) != 1 || rep.Coverage <= 0 {
		t.Errorf("Unexpected report: %+v", rep)
	}

	ink(img, image.Rect(20, 280, 180, 295))
	if _, err := Verify(NewInkDetector(), img, 40); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
}
