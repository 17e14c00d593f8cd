package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var _ Cache = (*MemoryCache)(nil)

// MemoryCache is an in-process Cache used when Redis is unavailable
type MemoryCache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

// NewMemoryCache creates an in-process cache with the given default TTL
func NewMemoryCache(ttl time.Duration, logger *zap.Logger) *MemoryCache {
	cleanup := 2 * ttl
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	logger.Info("Using in-memory cache", zap.Duration("ttl", ttl))
	return &MemoryCache{
		store:      gocache.New(ttl, cleanup),
		defaultTTL: ttl,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, ok := c.store.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	data, ok := val.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cached type %T", val)
	}
	if err := codec.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	c.store.Set(key, data, ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		c.store.Delete(k)
	}
	return nil
}

// HealthCheck always succeeds for the in-process store
func (c *MemoryCache) HealthCheck(ctx context.Context) error {
	return nil
}
