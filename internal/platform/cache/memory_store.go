package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// sweepInterval は期限切れエントリをまとめて削除する最小間隔です。
const sweepInterval = time.Minute

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu        sync.Mutex
	clock     Clock
	entries   map[string]memoryEntry
	nextSweep time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. A nil clock means SystemClock.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryStore{clock: clock, entries: make(map[string]memoryEntry)}
}

// Get returns a copy of the value if present and not expired. Expired entries are evicted.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.clock.Now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

// Set stores a copy of value. At most once per sweepInterval it also drops every expired entry,
// so keys that are never read again do not accumulate.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(sweepInterval)
	}
	m.entries[key] = memoryEntry{value: v, expires: now.Add(ttl)}
	return nil
}

// sweep は期限切れエントリを削除します。呼び出し側でロックを保持していること。
func (m *MemoryStore) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
