package settings

import (
	"slices"
	"sync"
)

// MemoryStore is an in-memory Store. It records how often each key was
// written, which tests use to assert write-once behavior.
type MemoryStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	lists   map[string][]string
	writes  map[string]int
	synced  int
	SyncErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs:  make(map[string][]byte),
		lists:  make(map[string][]string),
		writes: make(map[string]int),
	}
}

func (m *MemoryStore) Contains(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, blob := m.blobs[key]
	_, list := m.lists[key]
	return blob || list
}

func (m *MemoryStore) Value(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.blobs[key])
}

func (m *MemoryStore) SetValue(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lists, key)
	if value == nil {
		value = []byte{}
	}
	m.blobs[key] = slices.Clone(value)
	m.writes[key]++
	return nil
}

func (m *MemoryStore) Strings(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.lists[key])
}

func (m *MemoryStore) SetStrings(key string, values []string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	if values == nil {
		values = []string{}
	}
	m.lists[key] = slices.Clone(values)
	m.writes[key]++
	return nil
}

func (m *MemoryStore) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced++
	return m.SyncErr
}

// Writes returns how many times key was written.
func (m *MemoryStore) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

// TotalWrites returns the number of writes across all keys.
func (m *MemoryStore) TotalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.writes {
		n += w
	}
	return n
}

// Syncs returns how many times Sync was called.
func (m *MemoryStore) Syncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.synced
}
