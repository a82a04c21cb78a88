package analyzer

import (
	"image"
	"sort"
)

// Block represents a detected region of interest in an image
type Block struct {
	Rect       image.Rectangle
	Type       string  // "text", "unknown"
	Confidence float64 // 0.0-1.0
}

// Band is a horizontal strip of rows containing ink, [Top, Bottom).
type Band struct {
	Top    int
	Bottom int
}

// Height of the band in rows.
func (b Band) Height() int { return b.Bottom - b.Top }

// Detector is the interface for image analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// Bands projects blocks onto the vertical axis and merges overlapping ones.
func Bands(blocks []Block) []Band {
	if len(blocks) == 0 {
		return nil
	}
	bands := make([]Band, 0, len(blocks))
	for _, b := range blocks {
		bands = append(bands, Band{Top: b.Rect.Min.Y, Bottom: b.Rect.Max.Y})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Top < bands[j].Top })

	merged := bands[:1]
	for _, b := range bands[1:] {
		last := &merged[len(merged)-1]
		if b.Top <= last.Bottom {
			if b.Bottom > last.Bottom {
				last.Bottom = b.Bottom
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}
