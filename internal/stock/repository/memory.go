package repository

import (
	"context"
	"sync"

	"github.com/stockboard/stockboard/internal/stock"
)

// MemoryRepo is a simple in-memory repository used for demos and unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store []stock.Record
}

func NewMemoryRepo(seed ...stock.Record) *MemoryRepo {
	m := &MemoryRepo{}
	for _, r := range seed {
		m.store = append(m.store, r.Clone())
	}
	return m
}

func (m *MemoryRepo) List(ctx context.Context) ([]stock.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]stock.Record, 0, len(m.store))
	for _, r := range m.store {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Append(ctx context.Context, rec stock.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = append(m.store, rec.Clone())
	return nil
}
