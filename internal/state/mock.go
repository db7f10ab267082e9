// internal/state/mock.go
package state

import (
	"database/sql"
	"sync"
)

// Mock is a test double for Manager. Unlike the real manager it records every
// save immediately, without debouncing, so tests can assert on the sequence.
type Mock struct {
	mu         sync.Mutex
	queueState *QueueState
	saved      []QueueState
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveQueue(state QueueState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, state)
	m.queueState = &state
}

// GetQueue returns the last saved state, or the empty-queue sentinel when
// nothing was saved, matching the real manager's no-rows behavior.
func (m *Mock) GetQueue() (*QueueState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queueState == nil {
		return &QueueState{CurrentIndex: -1}, nil
	}
	state := *m.queueState
	return &state, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetQueue(state *QueueState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueState = state
}

func (m *Mock) SavedStates() []QueueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]QueueState(nil), m.saved...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
