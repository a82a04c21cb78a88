package particles

import (
	"math/rand"
	"testing"

	"github.com/ivlev/giftreveal/internal/config"
)

func TestGenerate(t *testing.T) {
	rg := Ranges{MinDuration: 5, MaxDuration: 9, MaxDelay: 3}
	r := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 20, 40, 250} {
		ps := Generate(n, rg, r)
		if len(ps) != n {
			t.Fatalf("Expected %d descriptors, got %d", n, len(ps))
		}
		seen := make(map[int]bool, n)
		for i, p := range ps {
			if p.ID != i {
				t.Errorf("Descriptor %d has id %d", i, p.ID)
			}
			if seen[p.ID] {
				t.Errorf("Duplicate id %d", p.ID)
			}
			seen[p.ID] = true

			if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
				t.Errorf("Position out of range: %+v", p)
			}
			if p.Duration < rg.MinDuration || p.Duration > rg.MaxDuration {
				t.Errorf("Duration out of range: %+v", p)
			}
			if p.Delay < 0 || p.Delay > rg.MaxDelay {
				t.Errorf("Delay out of range: %+v", p)
			}
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	if ps := Generate(0, Ranges{}, nil); ps != nil {
		t.Errorf("Expected nil for zero count, got %v", ps)
	}
}

func TestGenerateForBreakpoint(t *testing.T) {
	profile, _ := config.ProfileFor(config.VariantTimed)

	tests := []struct {
		width int
		class WidthClass
		want  int
	}{
		{375, Narrow, 20},
		{767, Narrow, 20},
		{768, Wide, 40},
		{1440, Wide, 40},
	}

	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			if got := ClassFor(tt.width); got != tt.class {
				t.Errorf("ClassFor(%d) = %v, want %v", tt.width, got, tt.class)
			}
			if got := len(GenerateFor(profile, tt.width, nil)); got != tt.want {
				t.Errorf("GenerateFor(%d) produced %d, want %d", tt.width, got, tt.want)
			}
		})
	}
}
