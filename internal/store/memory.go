package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process Store used by tests and as a no-persistence
// fallback. Snapshots are kept as marshaled JSON so callers cannot alias
// stored state.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *Memory) Load(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, ErrNotFound
	}

	var snapshot Snapshot
	if err := json.Unmarshal(m.data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (m *Memory) Close() error {
	return nil
}
