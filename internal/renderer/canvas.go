package renderer

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	gradientFrom = color.RGBA{R: 0xF5, G: 0xE6, B: 0xD3, A: 0xFF}
	gradientTo   = color.RGBA{R: 0xE8, G: 0xD4, B: 0xB8, A: 0xFF}
)

// Shadow is a soft drop shadow applied to all text.
type Shadow struct {
	Color   color.NRGBA
	Blur    int // canvas-style blur, sigma = Blur/2
	OffsetX int
	OffsetY int
}

// DefaultShadow is rgba(0,0,0,0.2) blurred by 20 and offset by (5,5).
var DefaultShadow = Shadow{Color: color.NRGBA{A: 51}, Blur: 20, OffsetX: 5, OffsetY: 5}

// fillGradient paints a two-stop linear gradient from the top-left corner to
// the bottom-right corner.
func fillGradient(dst *image.RGBA, from, to color.RGBA) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	den := w*w + h*h

	for y := 0; y < b.Dy(); y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			// projection of (x,y) onto the diagonal
			t := (float64(x)*w + float64(y)*h) / den
			i := x * 4
			row[i+0] = mix(from.R, to.R, t)
			row[i+1] = mix(from.G, to.G, t)
			row[i+2] = mix(from.B, to.B, t)
			row[i+3] = 0xFF
		}
	}
}

func mix(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// compositeShadow blurs the text coverage mask and paints it under the text.
func compositeShadow(dst *image.RGBA, mask *image.Alpha, s Shadow) {
	if s.Blur > 0 {
		// three box passes approximate a gaussian of sigma = Blur/2
		r := s.Blur / 2
		for i := 0; i < 3; i++ {
			boxBlur(mask, r)
		}
	}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(s.Color), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}

// boxBlur runs a separable box blur of radius r over an alpha mask in place.
func boxBlur(m *image.Alpha, r int) {
	if r <= 0 {
		return
	}
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	size := w
	if h > size {
		size = h
	}
	line := make([]uint8, size)
	win := 2*r + 1

	blurLine := func(get func(i int) uint8, set func(i int, v uint8), n int) {
		for i := 0; i < n; i++ {
			line[i] = get(i)
		}
		sum := 0
		for i := -r; i <= r; i++ {
			if i >= 0 && i < n {
				sum += int(line[i])
			}
		}
		for i := 0; i < n; i++ {
			set(i, uint8(sum/win))
			if out := i - r; out >= 0 {
				sum -= int(line[out])
			}
			if in := i + r + 1; in < n {
				sum += int(line[in])
			}
		}
	}

	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		blurLine(func(i int) uint8 { return row[i] }, func(i int, v uint8) { row[i] = v }, w)
	}
	for x := 0; x < w; x++ {
		blurLine(
			func(i int) uint8 { return m.Pix[i*m.Stride+x] },
			func(i int, v uint8) { m.Pix[i*m.Stride+x] = v },
			h,
		)
	}
}
