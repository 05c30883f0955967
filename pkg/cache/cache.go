// Package cache is a small JSON-over-Redis read-through cache. A nil *Store,
// or one whose Redis is unreachable, behaves as a permanent miss so callers
// never need to branch on whether caching is enabled.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
)

type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// New wraps an existing client. prefix is prepended to every key.
func New(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Connect dials Redis from config and verifies it with a ping.
// On failure the returned Store is nil and safe to use.
func Connect(ctx context.Context) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return New(rdb, "dinehub:"), nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if s == nil || s.rdb == nil {
		return false
	}

	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
		}
		return false
	}

	return json.Unmarshal(val, dest) == nil
}

// Set stores value under key for the given TTL.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, s.prefix+key, data, ttl).Err()
}

// Forget removes one or more keys.
func (s *Store) Forget(ctx context.Context, keys ...string) error {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.rdb.Del(ctx, full...).Err()
}

// Hit increments key and starts its expiry on the first hit, giving a fixed
// window counter shared by every replica.
func (s *Store) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	if s == nil || s.rdb == nil {
		return 0, fmt.Errorf("cache: not connected")
	}
	full := s.prefix + key

	n, err := s.rdb.Incr(ctx, full).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, full, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Ping reports whether Redis answers. A nil Store is never healthy.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("cache: not connected")
	}
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
