package prefs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/ivlev/giftreveal/internal/config"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := s.Load(ctx, MusicEnabledKey); err != nil || found {
		t.Fatalf("Expected empty store, got found=%v err=%v", found, err)
	}

	for _, want := range []bool{true, false, true} {
		if err := s.Save(ctx, MusicEnabledKey, want); err != nil {
			t.Fatalf("Save(%v) failed: %v", want, err)
		}
		got, found, err := s.Load(ctx, MusicEnabledKey)
		if err != nil || !found {
			t.Fatalf("Load failed: found=%v err=%v", found, err)
		}
		if got != want {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}

func TestStores(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T) Store
	}{
		{"memory", func(t *testing.T) Store { return NewMemoryStore() }},
		{"file", func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.toml"))
			if err != nil {
				t.Fatalf("NewFileStore failed: %v", err)
			}
			return s
		}},
		{"sqlite", func(t *testing.T) Store {
			s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"))
			if err != nil {
				t.Fatalf("OpenSQLiteStore failed: %v", err)
			}
			return s
		}},
		{"redis", func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			s, err := NewRedisStore(context.Background(), &redis.Options{Addr: mr.Addr()})
			if err != nil {
				t.Fatalf("NewRedisStore failed: %v", err)
			}
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.open(t)
			defer s.Close()
			exerciseStore(t, s)
		})
	}
}

func TestFileStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	s, _ := NewFileStore(path)
	if err := s.Save(context.Background(), MusicEnabledKey, true); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "[preferences]") || !strings.Contains(string(data), "music-enabled = true") {
		t.Errorf("Unexpected file contents:\n%s", data)
	}

	// A second store over the same file sees the value.
	again, _ := NewFileStore(path)
	if v, found, _ := again.Load(context.Background(), MusicEnabledKey); !found || !v {
		t.Errorf("Expected persisted true, got found=%v v=%v", found, v)
	}
}

func TestRedisStoreKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), &redis.Options{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer s.Close()

	if err := s.Save(context.Background(), MusicEnabledKey, true); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	v, err := mr.Get(KeyPrefix + MusicEnabledKey)
	if err != nil || v != "1" {
		t.Errorf("Expected stored \"1\", got %q (%v)", v, err)
	}
	if ttl := mr.TTL(KeyPrefix + MusicEnabledKey); ttl != 0 {
		t.Errorf("Expected no expiry, got %v", ttl)
	}
}

type failingStore struct{ *MemoryStore }

func (failingStore) Save(context.Context, string, bool) error { return errors.New("disk full") }

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p, err := NewPreferences(ctx, store)
	if err != nil {
		t.Fatalf("NewPreferences failed: %v", err)
	}
	if p.MusicEnabled() {
		t.Error("Music should default to off")
	}

	on, err := p.ToggleMusic(ctx)
	if err != nil || !on {
		t.Fatalf("ToggleMusic: expected true, got %v (%v)", on, err)
	}
	if v, _, _ := store.Load(ctx, MusicEnabledKey); !v {
		t.Error("Toggle was not written through")
	}

	// Reload from the same store.
	p2, _ := NewPreferences(ctx, store)
	if !p2.MusicEnabled() {
		t.Error("Expected reloaded preference to be on")
	}

	if err := p2.SetMusicEnabled(ctx, false); err != nil || p2.MusicEnabled() {
		t.Errorf("SetMusicEnabled(false) failed: %v", err)
	}
}

func TestPreferencesWriteFailure(t *testing.T) {
	ctx := context.Background()
	p, _ := NewPreferences(ctx, failingStore{NewMemoryStore()})

	if _, err := p.ToggleMusic(ctx); err == nil {
		t.Fatal("Expected error from failing store")
	}
	if p.MusicEnabled() {
		t.Error("Failed write must not change the flag")
	}
}

func TestNewBackend(t *testing.T) {
	cfg := &config.Config{PrefsBackend: "memory"}
	s, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New(memory) failed: %v", err)
	}
	s.Close()

	cfg = &config.Config{PrefsBackend: "sqlite", PrefsPath: filepath.Join(t.TempDir(), "p.db")}
	s, err = New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New(sqlite) failed: %v", err)
	}
	s.Close()

	cfg = &config.Config{PrefsBackend: "etcd"}
	if _, err := New(context.Background(), cfg); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Expected ErrUnknownBackend, got %v", err)
	}
}
