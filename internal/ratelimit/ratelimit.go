package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "marketplace:ratelimit:"

// Counter is the subset of redis.Cmdable the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type FixedWindow struct {
	store  Counter
	Limit  int64
	Window time.Duration
}

func NewFixedWindow(store Counter, limit int64, window time.Duration) *FixedWindow {
	return &FixedWindow{store: store, Limit: limit, Window: window}
}

func Key(scope string) string {
	return keyPrefix + scope
}

// IncrWithTTL increments key and sets the TTL on the first increment.
func (f *FixedWindow) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := f.store.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl > 0 && count == 1 {
		if _, err := f.store.Expire(ctx, key, ttl).Result(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (f *FixedWindow) Allow(ctx context.Context, scope string) (bool, error) {
	count, err := f.IncrWithTTL(ctx, Key(scope), f.Window)
	if err != nil {
		return false, err
	}
	return count <= f.Limit, nil
}

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("REDIS_URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
