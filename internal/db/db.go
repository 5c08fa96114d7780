// Package db defines the storage facade the repositories are built on.
// Two drivers implement it: an in-memory store (default) and a Redis store
// via rueidis, selected by configuration at the composition root.
package db

import (
	"context"
	"time"
)

// Store is the key-value facade shared by both drivers.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides the key-value operations the repositories need.
// Values are opaque JSON documents; Scan matches keys with a glob pattern.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}
