package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader wraps a Store and collapses concurrent loads for the same
// namespace/key so a cold entry hits the backing store once.
type Loader struct {
	Store Store
	sf    singleflight.Group
}

func NewLoader(s Store) *Loader { return &Loader{Store: s} }

func (l *Loader) getOrLoad(ctx context.Context, namespace, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// A cache read error degrades to a miss: the backing store stays
	// authoritative and a dead cache must not take reads down with it.
	if b, ok, err := l.Store.Get(ctx, namespace, key); err == nil && ok {
		return b, nil
	}
	v, err, _ := l.sf.Do(namespace+sep+key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = l.Store.Put(ctx, namespace, key, b, ttl)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// GetOrLoadJSON is the read-through primitive: check cache, on miss run load,
// populate the entry, return the decoded value. A load that yields a nil
// pointer round-trips as JSON null, so not-found results are cached too.
func GetOrLoadJSON[T any](l *Loader, ctx context.Context, namespace, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	b, err := l.getOrLoad(ctx, namespace, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return zero, e
	}
	return out, nil
}

// PutJSON overwrites an entry with the encoded value.
func PutJSON[T any](ctx context.Context, s Store, namespace, key string, v T, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, namespace, key, b, ttl)
}
