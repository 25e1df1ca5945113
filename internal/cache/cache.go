package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is the slice of Redis the storefront needs: set-if-absent with a
// TTL, used to record a visit once per session.
type Cache interface {
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Memory is a process-local Cache for tests and for running without Redis.
type Memory struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{seen: make(map[string]time.Time)}
}

func (m *Memory) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if expiry, ok := m.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	m.seen[key] = now.Add(ttl)
	return true, nil
}
