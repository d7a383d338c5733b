package knowledge

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store. It backs tests and runs where no
// writable data directory exists; contents match the SQLite seed.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]ProjectRecord
}

// NewMemoryStore returns a MemoryStore preloaded with the baseline
// project fixtures.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{records: make(map[string]ProjectRecord, len(seedRecords))}
	for _, r := range seedRecords {
		m.records[r.ID] = r
	}
	return m
}

// Lookup returns the record for projectID, with ok=false on a miss.
func (m *MemoryStore) Lookup(projectID string) (ProjectRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[projectID]
	return r, ok, nil
}

// All returns every stored record ordered by project id.
func (m *MemoryStore) All() ([]ProjectRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ProjectRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Upsert inserts or replaces a project record.
func (m *MemoryStore) Upsert(r ProjectRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
