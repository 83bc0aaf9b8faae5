package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryMaxEntries bounds a Memory cache created with maxEntries <= 0.
const DefaultMemoryMaxEntries = 10000

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache. Expired entries are never returned and are
// removed by Purge, which the optional janitor runs periodically.
type Memory struct {
	mu         sync.RWMutex
	data       map[string]entry
	maxEntries int
	now        func() time.Time

	janitorEvery time.Duration
	stop         chan struct{}
	stopOnce     sync.Once
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithJanitor purges expired entries every interval until Close.
// The janitor starts once every option has been applied.
func WithJanitor(interval time.Duration) MemoryOption {
	return func(m *Memory) { m.janitorEvery = interval }
}

// NewMemory creates an in-memory cache holding at most maxEntries values.
func NewMemory(maxEntries int, opts ...MemoryOption) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryMaxEntries
	}
	m := &Memory{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.janitorEvery > 0 {
		go m.janitor(m.janitorEvery)
	}
	return m
}

// Get retrieves a value from cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value in cache with TTL. A non-positive TTL deletes the key.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		delete(m.data, key)
		return nil
	}
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.purgeLocked()
		if len(m.data) >= m.maxEntries {
			m.evictSoonestLocked()
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = entry{value: stored, expiresAt: m.now().Add(ttl)}
	return nil
}

// Delete removes a value from cache.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Purge removes expired entries and returns how many were removed.
func (m *Memory) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purgeLocked()
}

// Close stops the janitor, if any.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) purgeLocked() int {
	now := m.now()
	removed := 0
	for key, e := range m.data {
		if !now.Before(e.expiresAt) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

// evictSoonestLocked removes the entry closest to expiry.
func (m *Memory) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	for key, e := range m.data {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim, soonest = key, e.expiresAt
		}
	}
	if victim != "" {
		delete(m.data, victim)
	}
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Purge()
		}
	}
}
