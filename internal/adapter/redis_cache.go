package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career-compass/internal/domain"

	"github.com/redis/go-redis/v9"
)

var errEmptyKey = errors.New("cache key is empty")

// RedisCache backs the question bank and the embedding cache. Every call is
// bounded by timeout so a slow Redis degrades to a cache miss path instead of
// holding up a submission.
type RedisCache struct {
	rdb     redis.Cmdable
	timeout time.Duration
}

// NewRedisCache uses timeout as the per-call deadline; zero or less disables it.
func NewRedisCache(rdb redis.Cmdable, timeout time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, timeout: timeout}
}

func (c *RedisCache) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Get reports domain.ErrCacheMiss for absent keys.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", domain.ErrCacheMiss
	case err != nil:
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set stores value under key; ttl 0 keeps it until deleted.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return errEmptyKey
	}
	if ttl < 0 {
		return fmt.Errorf("redis set %s: negative ttl %s", key, ttl)
	}
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete treats an absent key as success.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := c.bounded(ctx)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}
