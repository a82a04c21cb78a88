package analyzer

import (
	"errors"
	"fmt"
	"image"
)

// ErrOutOfBounds is returned when ink reaches the safe margin of an image.
var ErrOutOfBounds = errors.New("content outside safe area")

// Report summarizes the ink bands of an image.
type Report struct {
	Bands    []Band
	Coverage float64 // share of rows covered by bands
}

// Verify detects ink bands in img and checks that all of them keep margin
// rows from the top and bottom edges.
func Verify(d Detector, img image.Image, margin int) (Report, error) {
	blocks, err := d.Detect(img)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Bands: Bands(blocks)}
	h := img.Bounds().Dy()
	if h == 0 {
		return rep, nil
	}

	covered := 0
	for _, b := range rep.Bands {
		covered += b.Height()
	}
	rep.Coverage = float64(covered) / float64(h)

	top, bottom := img.Bounds().Min.Y+margin, img.Bounds().Max.Y-margin
	for _, b := range rep.Bands {
		if b.Top < top || b.Bottom > bottom {
			return rep, fmt.Errorf("%w: band [%d,%d) with margin %d on %dpx image", ErrOutOfBounds, b.Top, b.Bottom, margin, h)
		}
	}
	return rep, nil
}
