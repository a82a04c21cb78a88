package renderer

import (
	"image/color"

	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/content"
)

// Style selects a font face.
type Style struct {
	Bold   bool
	Italic bool
	Size   float64 // px
}

// Line is one positioned line of text. Y is the baseline.
type Line struct {
	Text   string
	Style  Style
	Color  color.RGBA
	Y      int
	Indent bool
}

// Spec fixes the canvas and file name of a voucher.
type Spec struct {
	Width    int
	Height   int
	Filename string
}

// SpecFor derives the voucher spec of a variant profile.
func SpecFor(p config.Profile) Spec {
	return Spec{Width: p.CanvasWidth, Height: p.CanvasHeight, Filename: p.Filename}
}

var (
	textColor   = color.RGBA{R: 0x4A, G: 0x37, B: 0x28, A: 0xFF}
	accentColor = color.RGBA{R: 0xB8, G: 0x86, B: 0x0B, A: 0xFF}
)

// Layout constants. Each block sits at a fixed baseline; the body advances a
// fixed line height and the signature hangs below the last body line.
const (
	recipientY  = 150
	headlineY   = 250
	subtitleY   = 350
	offerY      = 450
	bodyStartY  = 550
	lineHeight  = 50
	durationGap = 30
	durationAdv = 80
	signatureY  = 80
	closingY    = 150
	indentWidth = 40
)

// LayoutFor places every block of doc. Spacer lines (empty text) advance the
// cursor but are not returned.
func LayoutFor(doc *content.Document) []Line {
	lines := []Line{
		{Text: doc.Recipient, Style: Style{Italic: true, Size: 48}, Color: textColor, Y: recipientY},
		{Text: doc.Headline, Style: Style{Bold: true, Size: 72}, Color: textColor, Y: headlineY},
		{Text: doc.Subtitle, Style: Style{Size: 42}, Color: textColor, Y: subtitleY},
		{Text: doc.OfferTitle, Style: Style{Bold: true, Size: 56}, Color: accentColor, Y: offerY},
	}

	y := bodyStartY
	for _, b := range doc.Benefits {
		lines = append(lines, Line{Text: b.Text, Style: Style{Size: 36}, Color: textColor, Y: y, Indent: b.Indent})
		y += lineHeight
	}

	if doc.Duration != "" {
		lines = append(lines, Line{Text: doc.Duration, Style: Style{Bold: true, Size: 40}, Color: textColor, Y: y + durationGap})
		y += durationAdv
	}

	n := len(doc.Signature)
	for i, text := range doc.Signature {
		if i == n-1 && n > 1 {
			lines = append(lines, Line{Text: text, Style: Style{Bold: true, Size: 52}, Color: accentColor, Y: y + closingY + (n-2)*lineHeight})
			continue
		}
		st := Style{Italic: true, Size: 44}
		c := textColor
		if n == 1 {
			st, c = Style{Bold: true, Size: 52}, accentColor
		}
		lines = append(lines, Line{Text: text, Style: st, Color: c, Y: y + signatureY + i*lineHeight})
	}

	drawn := lines[:0]
	for _, l := range lines {
		if l.Text != "" {
			drawn = append(drawn, l)
		}
	}
	return drawn
}

// Bottom returns the lowest baseline of a layout.
func Bottom(lines []Line) int {
	max := 0
	for _, l := range lines {
		if l.Y > max {
			max = l.Y
		}
	}
	return max
}
