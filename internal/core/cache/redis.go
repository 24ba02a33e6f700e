package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sep = ":"

// RedisStore implements Store on a single Redis instance. Entries live under
// "<namespace>:<key>"; namespace-wide eviction walks the prefix with SCAN
// instead of KEYS so a large keyspace does not stall the server.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedis(addr, pass string, db int) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, namespace+sep+key).Bytes()
	switch {
	case err == redis.Nil:
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.rdb.Set(ctx, namespace+sep+key, value, ttl).Err()
}

func (s *RedisStore) Evict(ctx context.Context, namespace, key string) error {
	return s.rdb.Del(ctx, namespace+sep+key).Err()
}

func (s *RedisStore) EvictAll(ctx context.Context, namespace string) error {
	iter := s.rdb.Scan(ctx, 0, namespace+sep+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 200 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.rdb.Del(ctx, keys...).Err()
	}
	return nil
}

func (s *RedisStore) Namespaces(ctx context.Context) ([]string, error) {
	iter := s.rdb.Scan(ctx, 0, "*"+sep+"*", 200).Iterator()
	seen := map[string]struct{}{}
	for iter.Next(ctx) {
		if i := strings.Index(iter.Val(), sep); i > 0 {
			seen[iter.Val()[:i]] = struct{}{}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}
