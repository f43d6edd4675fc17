package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by GetJSON when the key is absent or the cache is down.
var ErrMiss = errors.New("cache miss")

// GetJSON fetches key and unmarshals it into dest.
func GetJSON(ctx context.Context, key string, dest interface{}) error {
	if client == nil {
		return ErrMiss
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON marshals value and stores it under key with the given TTL.
// Failures are swallowed: a cold cache is never worth failing a request.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: return the cached value under key
// if present, otherwise call load, store its result, and return it.
func Aside(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func() (interface{}, error)) error {
	if err := GetJSON(ctx, key, dest); err == nil {
		return nil
	}

	fresh, err := load()
	if err != nil {
		return err
	}

	SetJSON(ctx, key, fresh, ttl)

	// Round-trip through JSON so dest sees the same shape a cache hit would.
	raw, err := json.Marshal(fresh)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
