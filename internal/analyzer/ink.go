package analyzer

import "image"

// InkDetector finds lines of dark text on a light background by projecting
// dark pixels onto rows. It is much cheaper than edge detection on large
// canvases and suits flat gradient backgrounds.
type InkDetector struct {
	LumaThreshold uint8 // pixels darker than this count as ink
	MinRowInk     int   // ink pixels needed for a row to count
	MaxGap        int   // rows of blank allowed inside one line
}

// NewInkDetector creates a detector tuned for dark text on pale paper.
func NewInkDetector() *InkDetector {
	return &InkDetector{
		LumaThreshold: 160,
		MinRowInk:     2,
		MaxGap:        3,
	}
}

// Detect returns one text block per ink line.
func (d *InkDetector) Detect(img image.Image) ([]Block, error) {
	gray := toGrayscale(img)
	b := gray.Bounds()

	type rowInk struct {
		count      int
		minX, maxX int
	}
	rows := make([]rowInk, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		r := rowInk{minX: b.Max.X, maxX: b.Min.X - 1}
		for x := b.Min.X; x < b.Max.X; x++ {
			if gray.GrayAt(x, y).Y < d.LumaThreshold {
				r.count++
				if x < r.minX {
					r.minX = x
				}
				if x > r.maxX {
					r.maxX = x
				}
			}
		}
		rows[y-b.Min.Y] = r
	}

	var blocks []Block
	start, gap := -1, 0
	minX, maxX := 0, 0
	flush := func(end int) {
		if start >= 0 {
			blocks = append(blocks, Block{
				Rect:       image.Rect(minX, b.Min.Y+start, maxX+1, b.Min.Y+end),
				Type:       "text",
				Confidence: 0.9,
			})
		}
		start, gap = -1, 0
	}

	for i, r := range rows {
		if r.count >= d.MinRowInk {
			if start < 0 {
				start, minX, maxX = i, r.minX, r.maxX
			} else {
				minX, maxX = min(minX, r.minX), max(maxX, r.maxX)
			}
			gap = 0
			continue
		}
		if start >= 0 {
			gap++
			if gap > d.MaxGap {
				flush(i - gap + 1)
			}
		}
	}
	flush(len(rows) - gap)

	return blocks, nil
}
