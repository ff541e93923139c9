package store

import (
	"context"
	"sync"

	"github.com/shelfmetrics/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory product repository. It backs tests
// and database-less runs; the persisted table is replace-on-rerun, so there
// is no per-row mutation surface.
type MemoryStore struct {
	rows  []domain.PricedProduct
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ReplaceAll swaps the whole table for the given rows.
func (s *MemoryStore) ReplaceAll(ctx context.Context, rows []domain.PricedProduct) error {
	copied := make([]domain.PricedProduct, len(rows))
	copy(copied, rows)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.rows = copied
	return nil
}

// List returns rows in insertion order. limit <= 0 means no limit.
func (s *MemoryStore) List(ctx context.Context, limit, offset int) ([]domain.PricedProduct, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.rows) {
		return []domain.PricedProduct{}, nil
	}
	end := len(s.rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]domain.PricedProduct, end-offset)
	copy(out, s.rows[offset:end])
	return out, nil
}

// Count returns the number of persisted rows.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.rows), nil
}
