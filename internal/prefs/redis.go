package prefs

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// KeyPrefix namespaces preference keys in Redis.
const KeyPrefix = "giftreveal:pref:"

// RedisStore keeps preferences as "0"/"1" strings without expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings once. There is no retry.
func NewRedisStore(ctx context.Context, opts *redis.Options) (*RedisStore, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	logrus.WithField("addr", opts.Addr).Debug("connected to Redis preference store")
	return &RedisStore{client: client}, nil
}

func makeKey(key string) string {
	return KeyPrefix + key
}

func (s *RedisStore) Load(ctx context.Context, key string) (bool, bool, error) {
	data, err := s.client.Get(ctx, makeKey(key)).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("loading %s: %w", key, err)
	}
	return data == "1", true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value bool) error {
	v := "0"
	if value {
		v = "1"
	}
	if err := s.client.Set(ctx, makeKey(key), v, 0).Err(); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
