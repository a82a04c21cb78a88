package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

type fileDoc struct {
	Preferences map[string]bool `toml:"preferences"`
}

// FileStore keeps preferences in a TOML file:
//
//	[preferences]
//	music-enabled = true
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore uses path, creating its directory. The file itself is created
// on first save.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating preference directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) read() (fileDoc, error) {
	doc := fileDoc{Preferences: map[string]bool{}}
	if _, err := toml.DecodeFile(s.path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if doc.Preferences == nil {
		doc.Preferences = map[string]bool{}
	}
	return doc, nil
}

func (s *FileStore) Load(_ context.Context, key string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return false, false, err
	}
	v, ok := doc.Preferences[key]
	return v, ok, nil
}

func (s *FileStore) Save(_ context.Context, key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Preferences[key] = value

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Close() error { return nil }
