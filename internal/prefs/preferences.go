package prefs

import (
	"context"
	"sync"
)

// Preferences is the process-wide preference handle. It is loaded once from
// a Store and writes every change through.
type Preferences struct {
	store Store
	mu    sync.Mutex
	music bool
}

// NewPreferences loads the current values from store. A missing value keeps
// its default (music off).
func NewPreferences(ctx context.Context, store Store) (*Preferences, error) {
	p := &Preferences{store: store}
	v, found, err := store.Load(ctx, MusicEnabledKey)
	if err != nil {
		return nil, err
	}
	if found {
		p.music = v
	}
	return p, nil
}

func (p *Preferences) MusicEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.music
}

// SetMusicEnabled persists v. The in-memory value only changes once the write
// succeeds.
func (p *Preferences) SetMusicEnabled(ctx context.Context, v bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Save(ctx, MusicEnabledKey, v); err != nil {
		return err
	}
	p.music = v
	return nil
}

// ToggleMusic flips the music flag and returns the new value.
func (p *Preferences) ToggleMusic(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := !p.music
	if err := p.store.Save(ctx, MusicEnabledKey, next); err != nil {
		return p.music, err
	}
	p.music = next
	return next, nil
}

// Close releases the underlying store.
func (p *Preferences) Close() error {
	return p.store.Close()
}
