// Package cache provides the namespaced key-value store the services use for
// their cache-aside reads and write-through overwrites, plus JSON helpers
// that collapse concurrent misses.
package cache

import (
	"context"
	"time"
)

// Store is a byte-level cache with independent entries per namespace.
// Implementations must make Put/Evict immediately visible to subsequent Get
// calls and must be safe for concurrent use. Namespace names must not contain
// the ':' separator.
type Store interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	// Put stores value under namespace/key. ttl <= 0 means no expiry.
	Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	// Evict removes a single entry; absence is not an error.
	Evict(ctx context.Context, namespace, key string) error
	// EvictAll removes every entry in the namespace.
	EvictAll(ctx context.Context, namespace string) error
	// Namespaces lists the namespaces that currently hold entries.
	Namespaces(ctx context.Context) ([]string, error)
}
