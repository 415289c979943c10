package cache

import (
	"sync"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

// Memory keeps statements in a process-local map. Entries live until they
// are overwritten or the process exits.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]model.CacheEntry
	ttl     time.Duration
	now     Clock
}

var _ ports.StatementCache = (*Memory)(nil)

func NewMemory(ttl time.Duration, clock Clock) *Memory {
	if clock == nil {
		clock = time.Now
	}
	return &Memory{
		entries: make(map[string]model.CacheEntry),
		ttl:     ttl,
		now:     clock,
	}
}

func (m *Memory) Get(key string) (*model.CacheEntry, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !fresh(entry, m.now(), m.ttl) {
		return nil, false
	}
	return &entry, true
}

func (m *Memory) Put(entry model.CacheEntry) error {
	m.mu.Lock()
	m.entries[entry.Key] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(expiredOnly bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !expiredOnly {
		n := len(m.entries)
		m.entries = make(map[string]model.CacheEntry)
		return n, nil
	}

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if !fresh(e, now, m.ttl) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Close() error { return nil }
