package testutils

import (
	"sync"

	"github.com/evdnx/stochopt/executor"
	"github.com/evdnx/stochopt/types"
)

// MockExecutor implements the Executor interface in‑memory. Fills behave
// exactly like PaperExecutor; every accepted order is captured.
type MockExecutor struct {
	mu     sync.RWMutex
	paper  *executor.PaperExecutor
	orders []types.Order // captured for assertions
	trades []types.Trade
	// FailNext makes the next Submit return this error without filling.
	FailNext error
}

// NewMockExecutor creates a fresh executor with the supplied starting equity
// and no fee.
func NewMockExecutor(startEquity float64) *MockExecutor {
	return &MockExecutor{paper: executor.NewPaperExecutor(startEquity, nil, 8)}
}

// Submit records the order and forwards it to the paper account.
func (m *MockExecutor) Submit(o types.Order) (*types.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return nil, err
	}
	tr, err := m.paper.Submit(o)
	if err != nil {
		return nil, err
	}
	m.orders = append(m.orders, o)
	if tr != nil {
		m.trades = append(m.trades, *tr)
	}
	return tr, nil
}

// Equity returns the current account balance.
func (m *MockExecutor) Equity() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paper.Equity()
}

// Position returns the open position, if any.
func (m *MockExecutor) Position() (types.Position, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paper.Position()
}

// Orders returns a copy of all submitted orders (useful for assertions).
func (m *MockExecutor) Orders() []types.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

// Trades returns a copy of all closed trades.
func (m *MockExecutor) Trades() []types.Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Trade, len(m.trades))
	copy(out, m.trades)
	return out
}
