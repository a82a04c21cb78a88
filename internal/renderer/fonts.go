package renderer

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSet holds the parsed font families. Parsed fonts are shared; faces are
// created per render because opentype faces are not safe for concurrent use.
type FontSet struct {
	regular, bold, italic, boldItalic *opentype.Font
}

var (
	defaultFonts    *FontSet
	defaultFontsErr error
	defaultOnce     sync.Once
)

// DefaultFonts returns the embedded Go font family.
func DefaultFonts() (*FontSet, error) {
	defaultOnce.Do(func() {
		defaultFonts, defaultFontsErr = ParseFonts(goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF)
	})
	return defaultFonts, defaultFontsErr
}

// ParseFonts builds a FontSet from TrueType/OpenType data.
func ParseFonts(regular, bold, italic, boldItalic []byte) (*FontSet, error) {
	var fs FontSet
	for _, f := range []struct {
		dst  **opentype.Font
		data []byte
		name string
	}{
		{&fs.regular, regular, "regular"},
		{&fs.bold, bold, "bold"},
		{&fs.italic, italic, "italic"},
		{&fs.boldItalic, boldItalic, "bold italic"},
	} {
		parsed, err := opentype.Parse(f.data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s font: %w", f.name, err)
		}
		*f.dst = parsed
	}
	return &fs, nil
}

func (fs *FontSet) font(st Style) *opentype.Font {
	switch {
	case st.Bold && st.Italic:
		return fs.boldItalic
	case st.Bold:
		return fs.bold
	case st.Italic:
		return fs.italic
	default:
		return fs.regular
	}
}

// faceCache creates faces lazily for one render call.
type faceCache struct {
	fonts *FontSet
	faces map[Style]font.Face
}

func newFaceCache(fs *FontSet) *faceCache {
	return &faceCache{fonts: fs, faces: make(map[Style]font.Face)}
}

func (c *faceCache) face(st Style) (font.Face, error) {
	if f, ok := c.faces[st]; ok {
		return f, nil
	}
	// 72 DPI makes points equal to pixels.
	f, err := opentype.NewFace(c.fonts.font(st), &opentype.FaceOptions{
		Size:    st.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	c.faces[st] = f
	return f, nil
}

func (c *faceCache) Close() {
	for _, f := range c.faces {
		f.Close()
	}
}
