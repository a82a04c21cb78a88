package director

// Keyframe pins a value at a position on a timeline (seconds, or normalized
// scroll progress).
type Keyframe struct {
	At    float64
	Value float64
}

// Easing maps linear progress in [0,1] onto eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// InterpolateKeyframes calculates the value at pos by interpolating between
// the surrounding keyframes. Before the first keyframe the first value holds,
// after the last keyframe the last value holds.
func InterpolateKeyframes(keyframes []Keyframe, pos float64, ease Easing) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if ease == nil {
		ease = Linear
	}

	if pos <= keyframes[0].At {
		return keyframes[0].Value
	}

	last := keyframes[len(keyframes)-1]
	if pos >= last.At {
		return last.Value
	}

	// Find surrounding keyframes
	var prevKf, nextKf Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if pos >= keyframes[i].At && pos < keyframes[i+1].At {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	span := nextKf.At - prevKf.At
	if span == 0 {
		return nextKf.Value
	}
	t := ease((pos - prevKf.At) / span)

	return lerp(prevKf.Value, nextKf.Value, t)
}

// SectionOpacity ramps linearly from 0 at the window start to 1 at the window
// end. Opacity is 0 before the window and held at 1 after it.
func SectionOpacity(sec Section, progress float64) float64 {
	return InterpolateKeyframes([]Keyframe{
		{At: sec.Start, Value: 0},
		{At: sec.End, Value: 1},
	}, progress, Linear)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
