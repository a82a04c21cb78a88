// Package prefs persists the boolean user preferences that outlive a reveal
// session.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/ivlev/giftreveal/internal/config"
)

// MusicEnabledKey is the stable identifier of the music preference.
const MusicEnabledKey = "music-enabled"

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown preference backend")

// Store reads and writes boolean preferences.
type Store interface {
	// Load returns the stored value and whether one was found.
	Load(ctx context.Context, key string) (value bool, found bool, err error)
	Save(ctx context.Context, key string, value bool) error
	Close() error
}

// New opens the backend selected by cfg.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.PrefsBackend {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.PrefsPath)
	case "sqlite":
		return OpenSQLiteStore(cfg.PrefsPath)
	case "redis":
		return NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.PrefsBackend)
	}
}
