package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Provider for repeated windows within one run.
type Memory struct {
	inner *gocache.Cache
}

// NewMemory builds a memory cache; defaultTTL applies when Store is called
// with a non-positive TTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{inner: gocache.New(defaultTTL, defaultTTL/2+time.Minute)}
}

func (m *Memory) Fetch(key string) ([]byte, bool) {
	value, ok := m.inner.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := value.([]byte)
	return data, ok
}

func (m *Memory) Store(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.inner.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.inner.Delete(key)
	return nil
}

func (m *Memory) Clear() error {
	m.inner.Flush()
	return nil
}
