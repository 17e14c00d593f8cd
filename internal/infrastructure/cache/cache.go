// Package cache stores short-lived JSON snapshots, in Redis when available
// and in process otherwise.
package cache

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Cache is the key/value store used by services for short-lived snapshots
type Cache interface {
	// Get decodes the value stored at key into dest, or returns ErrCacheMiss
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores value under key. A ttl of zero uses the cache default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	HealthCheck(ctx context.Context) error
}

// ErrCacheMiss indicates the key was not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Both stores hold the same encoded bytes so a value reads back identically
var codec = jsoniter.ConfigCompatibleWithStandardLibrary
