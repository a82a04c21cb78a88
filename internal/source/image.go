package source

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when a directory holds no PNG or JPEG files.
var ErrNoImages = errors.New("no images found")

// ImageSource lists PNG and JPEG files from a single file or a directory.
// Directory entries are ordered by name.
type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && isImage(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoImages, path)
		}
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

func (s *ImageSource) Path(index int) string {
	return s.paths[index]
}

// Dimensions reads only the image header.
func (s *ImageSource) Dimensions(index int) (width, height int, err error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", s.paths[index], err)
	}
	return cfg.Width, cfg.Height, nil
}

func (s *ImageSource) Load(index int) (image.Image, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.paths[index], err)
	}
	return img, nil
}

// LoadStamp loads the first image at path, rejecting anything wider or
// taller than maxSide pixels.
func LoadStamp(path string, maxSide int) (image.Image, error) {
	src, err := NewImageSource(path)
	if err != nil {
		return nil, err
	}
	w, h, err := src.Dimensions(0)
	if err != nil {
		return nil, err
	}
	if w > maxSide || h > maxSide {
		return nil, fmt.Errorf("stamp %s is %dx%d, larger than %dpx", src.Path(0), w, h, maxSide)
	}
	return src.Load(0)
}
