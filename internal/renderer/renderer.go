package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/giftreveal/internal/content"
)

var (
	// ErrSurfaceUnavailable is returned when no drawing surface can be obtained.
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")
	// ErrEncodeFailed is returned when the PNG encoder fails or produces nothing.
	ErrEncodeFailed = errors.New("voucher encoding failed")
	// ErrOverflow is returned when the layout does not fit the canvas.
	ErrOverflow = errors.New("voucher layout exceeds canvas")
)

const stampMargin = 40

// SurfaceProvider hands out blank RGBA canvases.
type SurfaceProvider interface {
	Acquire(rect image.Rectangle) (*image.RGBA, error)
	Release(img *image.RGBA)
}

// Asset is an encoded voucher ready to be offered as a download.
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Options tune a Renderer.
type Options struct {
	Shadow *Shadow
	Fonts  *FontSet
}

// Renderer draws voucher images.
type Renderer struct {
	surfaces SurfaceProvider
	fonts    *FontSet
	shadow   Shadow
	stamp    image.Image
	log      logrus.FieldLogger
}

// New creates a renderer drawing on surfaces from sp.
func New(sp SurfaceProvider, opts Options) (*Renderer, error) {
	fs := opts.Fonts
	if fs == nil {
		var err error
		if fs, err = DefaultFonts(); err != nil {
			return nil, err
		}
	}
	shadow := DefaultShadow
	if opts.Shadow != nil {
		shadow = *opts.Shadow
	}
	return &Renderer{
		surfaces: sp,
		fonts:    fs,
		shadow:   shadow,
		log:      logrus.WithField("component", "renderer"),
	}, nil
}

// WithStamp returns a copy of r that draws stamp in the corner.
func (r *Renderer) WithStamp(stamp image.Image) *Renderer {
	cp := *r
	cp.stamp = stamp
	return &cp
}

// Render draws doc on a fresh canvas and encodes it as PNG. On any failure
// no asset is returned.
func (r *Renderer) Render(ctx context.Context, doc *content.Document, spec Spec) (*Asset, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	lines := LayoutFor(doc)
	if bottom := Bottom(lines); bottom >= spec.Height {
		return nil, fmt.Errorf("%w: last baseline %d on %dpx canvas", ErrOverflow, bottom, spec.Height)
	}

	rect := image.Rect(0, 0, spec.Width, spec.Height)
	canvas, err := r.surfaces.Acquire(rect)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	if canvas == nil {
		return nil, fmt.Errorf("%w: no canvas for %v", ErrSurfaceUnavailable, rect)
	}
	defer r.surfaces.Release(canvas)

	faces := newFaceCache(r.fonts)
	defer faces.Close()

	fillGradient(canvas, gradientFrom, gradientTo)

	mask := image.NewAlpha(rect)
	if err := r.drawLines(mask, lines, faces, spec.Width, image.Pt(r.shadow.OffsetX, r.shadow.OffsetY)); err != nil {
		return nil, err
	}
	compositeShadow(canvas, mask, r.shadow)

	if err := r.drawLines(canvas, lines, faces, spec.Width, image.Point{}); err != nil {
		return nil, err
	}

	if r.stamp != nil {
		sb := r.stamp.Bounds()
		at := image.Pt(spec.Width-stampMargin-sb.Dx(), spec.Height-stampMargin-sb.Dy())
		draw.Draw(canvas, sb.Sub(sb.Min).Add(at), r.stamp, sb.Min, draw.Over)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncodeFailed
	}

	r.log.WithFields(logrus.Fields{
		"file":  spec.Filename,
		"bytes": buf.Len(),
		"lines": len(lines),
	}).Debug("voucher rendered")

	return &Asset{Filename: spec.Filename, ContentType: "image/png", Data: buf.Bytes()}, nil
}

// drawLines draws each line centered horizontally. When dst is an alpha mask
// the glyph coverage is written as opaque ink.
func (r *Renderer) drawLines(dst draw.Image, lines []Line, faces *faceCache, width int, offset image.Point) error {
	_, isMask := dst.(*image.Alpha)
	for _, l := range lines {
		face, err := faces.face(l.Style)
		if err != nil {
			return fmt.Errorf("creating face: %w", err)
		}
		src := image.Image(image.NewUniform(l.Color))
		if isMask {
			src = image.Opaque
		}
		d := &font.Drawer{Dst: dst, Src: src, Face: face}
		w := d.MeasureString(l.Text).Round()
		x := (width-w)/2 + offset.X
		if l.Indent {
			x += indentWidth
		}
		d.Dot = fixed.P(x, l.Y+offset.Y)
		d.DrawString(l.Text)
	}
	return nil
}
