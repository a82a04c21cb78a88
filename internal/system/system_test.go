package system

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestImagePoolAcquire(t *testing.T) {
	pool := NewImagePool(1)
	rect := image.Rect(0, 0, 120, 160)

	img, err := pool.Acquire(rect)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if img.Bounds() != rect {
		t.Errorf("Expected bounds %v, got %v", rect, img.Bounds())
	}

	if _, err := pool.Acquire(rect); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("Expected ErrPoolExhausted, got %v", err)
	}

	pool.Release(img)
	if pool.InUse() != 0 {
		t.Errorf("Expected no canvases in use, got %d", pool.InUse())
	}

	again, err := pool.Acquire(rect)
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	pool.Release(again)
}

func TestImagePoolRejects(t *testing.T) {
	pool := NewImagePool(0)
	tests := []struct {
		name string
		rect image.Rectangle
	}{
		{"empty", image.Rect(0, 0, 0, 100)},
		{"huge", image.Rect(0, 0, 10000, 10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := pool.Acquire(tt.rect); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
	if pool.InUse() != 0 {
		t.Errorf("Rejected requests must not count as in use, got %d", pool.InUse())
	}
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "out", "vouchers")
	if err := EnsureDirs(a, ""); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	if fi, err := os.Stat(a); err != nil || !fi.IsDir() {
		t.Errorf("Expected directory %s", a)
	}
}

func TestReadHostStats(t *testing.T) {
	hs, err := ReadHostStats()
	if err != nil {
		t.Skipf("host stats unavailable: %v", err)
	}
	if hs.TotalMemory == 0 {
		t.Error("Expected non-zero total memory")
	}
	t.Logf("Host: %s", hs)
}
