package director

import "testing"

func TestInterpolateKeyframes(t *testing.T) {
	keyframes := []Keyframe{
		{At: 0.0, Value: 1.0},
		{At: 2.0, Value: 1.5},
		{At: 4.0, Value: 2.0},
	}

	tests := []struct {
		pos      float64
		expected float64
	}{
		{-1.0, 1.0}, // Before first keyframe
		{0.0, 1.0},  // First keyframe
		{1.0, 1.25}, // Midpoint between first and second
		{2.0, 1.5},  // Second keyframe
		{3.0, 1.75}, // Midpoint between second and third
		{4.0, 2.0},  // Third keyframe
		{5.0, 2.0},  // After last keyframe
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := InterpolateKeyframes(keyframes, tt.pos, Linear)
			if abs(got-tt.expected) > 1e-9 {
				t.Errorf("At %.1f: expected %.2f, got %.2f", tt.pos, tt.expected, got)
			}
			// Easing keeps the endpoints and midpoints of symmetric spans.
			eased := InterpolateKeyframes(keyframes, tt.pos, EaseInOutCubic)
			if abs(eased-tt.expected) > 1e-9 {
				t.Errorf("Eased at %.1f: expected %.2f, got %.2f", tt.pos, tt.expected, eased)
			}
		})
	}

	if got := InterpolateKeyframes(nil, 1, nil); got != 0 {
		t.Errorf("Expected 0 for no keyframes, got %f", got)
	}
}

func TestSectionOpacity(t *testing.T) {
	sec := Section{Stage: StageGift, Start: 0.4, End: 0.6}
	tests := []struct {
		progress, want float64
	}{
		{0.0, 0},
		{0.4, 0},
		{0.5, 0.5},
		{0.6, 1},
		{1.0, 1},
	}
	for _, tt := range tests {
		if got := SectionOpacity(sec, tt.progress); abs(got-tt.want) > 1e-9 {
			t.Errorf("SectionOpacity(%.2f) = %.3f, want %.3f", tt.progress, got, tt.want)
		}
	}
}
