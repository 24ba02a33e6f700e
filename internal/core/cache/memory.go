package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory implements Store on per-namespace expirable LRUs. Used when Redis is
// disabled and in tests. The TTL is fixed per store at construction; the
// per-call ttl argument is ignored (expirable.LRU has no per-entry TTL).
type Memory struct {
	mu     sync.Mutex
	size   int
	ttl    time.Duration
	spaces map[string]*expirable.LRU[string, []byte]
}

func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = 1024
	}
	return &Memory{
		size:   size,
		ttl:    ttl,
		spaces: make(map[string]*expirable.LRU[string, []byte]),
	}
}

func (m *Memory) space(namespace string, create bool) *expirable.LRU[string, []byte] {
	m.mu.Lock()
	defer m.mu.Unlock()
	lru, ok := m.spaces[namespace]
	if !ok && create {
		lru = expirable.NewLRU[string, []byte](m.size, nil, m.ttl)
		m.spaces[namespace] = lru
	}
	return lru
}

func (m *Memory) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	lru := m.space(namespace, false)
	if lru == nil {
		return nil, false, nil
	}
	v, ok := lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Put(_ context.Context, namespace, key string, value []byte, _ time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.space(namespace, true).Add(key, v)
	return nil
}

func (m *Memory) Evict(_ context.Context, namespace, key string) error {
	if lru := m.space(namespace, false); lru != nil {
		lru.Remove(key)
	}
	return nil
}

func (m *Memory) EvictAll(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lru, ok := m.spaces[namespace]; ok {
		lru.Purge()
		delete(m.spaces, namespace)
	}
	return nil
}

func (m *Memory) Namespaces(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.spaces))
	for ns, lru := range m.spaces {
		if lru.Len() > 0 {
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out, nil
}
