package analyzer

import (
	"image"
	"image/draw"
)

// ContrastDetector finds regions by gradient strength instead of darkness,
// so light text on a dark ground is found as well. Edges are widened
// horizontally to join glyphs of one line before components are labelled.
type ContrastDetector struct {
	MinBlockArea  int // bounding box area in px²
	EdgeThreshold int // Sobel magnitude
	JoinRadius    int // horizontal dilation in px
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30,
		JoinRadius:    6,
	}
}

// lumaPlane is a row-major luma copy of an image, origin at (0,0).
type lumaPlane struct {
	w, h int
	pix  []uint8
}

func newLumaPlane(img image.Image) lumaPlane {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return lumaPlane{w: b.Dx(), h: b.Dy(), pix: gray.Pix}
}

func (p lumaPlane) at(x, y int) int { return int(p.pix[y*p.w+x]) }

func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	plane := newLumaPlane(img)
	edges := d.edgeMask(plane)
	joined := widen(edges, plane.w, plane.h, d.JoinRadius)

	origin := img.Bounds().Min
	var blocks []Block
	for _, r := range components(joined, plane.w, plane.h) {
		if r.Dx()*r.Dy() < d.MinBlockArea {
			continue
		}
		kind := "unknown"
		// lines of text are much wider than tall
		if r.Dx() >= 3*r.Dy() {
			kind = "text"
		}
		blocks = append(blocks, Block{Rect: r.Add(origin), Type: kind, Confidence: 0.7})
	}
	return blocks, nil
}

// edgeMask marks pixels whose Sobel gradient exceeds the threshold. The one
// pixel border is never marked.
func (d *ContrastDetector) edgeMask(p lumaPlane) []bool {
	mask := make([]bool, p.w*p.h)
	limit := d.EdgeThreshold * d.EdgeThreshold
	for y := 1; y < p.h-1; y++ {
		for x := 1; x < p.w-1; x++ {
			gx := p.at(x+1, y-1) + 2*p.at(x+1, y) + p.at(x+1, y+1) -
				p.at(x-1, y-1) - 2*p.at(x-1, y) - p.at(x-1, y+1)
			gy := p.at(x-1, y+1) + 2*p.at(x, y+1) + p.at(x+1, y+1) -
				p.at(x-1, y-1) - 2*p.at(x, y-1) - p.at(x+1, y-1)
			mask[y*p.w+x] = gx*gx+gy*gy > limit
		}
	}
	return mask
}

// widen dilates the mask along rows by r pixels on each side.
func widen(mask []bool, w, h, r int) []bool {
	if r <= 0 {
		return mask
	}
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		row := mask[y*w : (y+1)*w]
		dst := out[y*w : (y+1)*w]
		last := -r - 1 // last set column seen
		for x := 0; x < w; x++ {
			if row[x] {
				lo := max(x-r, last+1, 0)
				for i := lo; i <= x; i++ {
					dst[i] = true
				}
				last = x
			}
			if x-last <= r {
				dst[x] = true
			}
		}
	}
	return out
}

// components returns the bounding boxes of 4-connected set regions.
func components(mask []bool, w, h int) []image.Rectangle {
	seen := make([]bool, len(mask))
	var rects []image.Rectangle
	var queue []int
	for start := range mask {
		if !mask[start] || seen[start] {
			continue
		}
		seen[start] = true
		queue = append(queue[:0], start)
		r := image.Rect(start%w, start/w, start%w+1, start/w+1)
		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := i%w, i/w
			r = r.Union(image.Rect(x, y, x+1, y+1))

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				if n < 0 || n >= len(mask) || seen[n] || !mask[n] {
					continue
				}
				// no wrapping across row ends
				if (n == i-1 && x == 0) || (n == i+1 && x == w-1) {
					continue
				}
				seen[n] = true
				queue = append(queue, n)
			}
		}
		rects = append(rects, r)
	}
	return rects
}
