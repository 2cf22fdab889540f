// Package cache provides the TTL cache used for geocoding and weather lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores opaque values for a bounded time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// New builds the cache selected by cfg.
func New(cfg config.CacheConfig) (Cache, error) {
	switch strings.ToLower(cfg.Driver) {
	case constants.CacheDriverNone:
		return Nop{}, nil
	case "", constants.CacheDriverMemory:
		return NewMemory(), nil
	case constants.CacheDriverRedis:
		return NewRedis(cfg.URL, constants.ServiceName+":")
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}

// GetJSON decodes a cached JSON value into v. It returns ErrMiss on a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SetJSON encodes v as JSON and caches it.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Close() error { return nil }
