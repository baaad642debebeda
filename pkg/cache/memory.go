package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// memoryEntry holds a serialized value with its expiry deadline
type memoryEntry struct {
	data     []byte
	expireAt time.Time
}

// Memory is a process-local TTL cache.
// Used when Redis is disabled; good enough for a single-process pipeline.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an in-memory cache store
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a cached value, checking expiry at read time
func (m *Memory) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if m.now().After(entry.expireAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value with TTL
func (m *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{
		data:     data,
		expireAt: m.now().Add(ttl),
	}
	m.mu.Unlock()

	return nil
}

// Delete removes a cached value
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
