// Package cache provides the TTL key-value store used to keep normalized BS
// months between requests.
package cache

import (
	"context"
	"sync"
	"time"
)

// MonthCache is a generic TTL key-value cache. Values are opaque serialized
// records. An entry is absent once the clock passes its stored time plus TTL;
// absent does not distinguish "never set" from "expired".
type MonthCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pruner is implemented by backends that keep expired entries until swept.
type Pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// Clock abstracts time.Now() to allow deterministic expiry in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process MonthCache. It is used by the CLI and by tests that
// need to control expiry through the clock.
type Memory struct {
	mu      sync.RWMutex
	clock   Clock
	entries map[string]memoryEntry
}

// NewMemory creates an empty in-memory cache. A nil clock uses RealClock.
func NewMemory(clock Clock) *Memory {
	if clock == nil {
		clock = RealClock{}
	}
	return &Memory{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns a copy of the stored value, or false when the key is missing or expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if m.clock.Now().After(entry.expiresAt) {
		m.mu.Lock()
		// A concurrent Set may have replaced the entry since the read.
		if current, ok := m.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Set stores a copy of value until now+ttl.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: m.clock.Now().Add(ttl),
	}
	return nil
}

// PruneExpired drops every expired entry and reports how many were removed.
func (m *Memory) PruneExpired(_ context.Context) (int64, error) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
