package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implementa Client sobre patrickmn/go-cache.
type Memory struct {
	prefix string
	c      *gocache.Cache
	// take serializa Get+Delete para que Take sea atómico.
	take sync.Mutex
}

// NewMemory crea un cache in-process; las entradas expiradas se purgan cada minuto.
func NewMemory(prefix string) *Memory {
	return &Memory{prefix: prefix, c: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(prefixed(m.prefix, key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(prefixed(m.prefix, key), value, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(prefixed(m.prefix, key))
	return nil
}

func (m *Memory) Take(ctx context.Context, key string) (string, error) {
	m.take.Lock()
	defer m.take.Unlock()
	v, err := m.Get(ctx, key)
	if err != nil {
		return "", err
	}
	m.c.Delete(prefixed(m.prefix, key))
	return v, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
