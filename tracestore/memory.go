package tracestore

import "sync"

// Memory is the default in-process Store, grounded in the teacher's
// cas.MemoryCAS: a map guarded by a RWMutex, keyed by content hash.
type Memory struct {
	mu      sync.RWMutex
	records map[Hash]TraceRecord
	order   []Hash
}

// NewMemory returns an empty in-process trace store.
func NewMemory() *Memory {
	return &Memory{records: make(map[Hash]TraceRecord)}
}

func (m *Memory) Put(rec TraceRecord) (Hash, error) {
	h, _, err := hashRecord(rec)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[h]; !ok {
		m.records[h] = rec
		m.order = append(m.order, h)
	}
	return h, nil
}

func (m *Memory) Has(h Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[h]
	return ok
}

func (m *Memory) List() []TraceRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TraceRecord, len(m.order))
	for i, h := range m.order {
		out[i] = m.records[h]
	}
	return out
}
