package persistence

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryBackend keeps values for the lifetime of the process.
type MemoryBackend struct {
	cache *gocache.Cache
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, found := m.cache.Get(key)
	if !found {
		return nil, ErrKeyNotFound
	}
	return v.([]byte), nil
}

func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	m.cache.Set(key, buf, gocache.NoExpiration)
	return nil
}

func (m *MemoryBackend) Remove(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
