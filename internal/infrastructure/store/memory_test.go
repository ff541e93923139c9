package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmetrics/backend/internal/domain"
)

func sampleRows(n int) []domain.PricedProduct {
	rows := make([]domain.PricedProduct, n)
	for i := range rows {
		qty := float64(100 * (i + 1))
		rows[i] = domain.PricedProduct{
			ProductName: "product",
			Price:       float64(i + 1),
			Quantity:    &qty,
			Unit:        domain.UnitGram,
		}
	}
	return rows
}

func TestMemoryStoreReplaceAndList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, s.ReplaceAll(ctx, sampleRows(3)))

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rows, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// A rerun replaces the table wholesale.
	require.NoError(t, s.ReplaceAll(ctx, sampleRows(1)))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreListPagination(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.ReplaceAll(ctx, sampleRows(5)))

	rows, err := s.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0].Price)

	rows, err = s.List(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5.0, rows[0].Price)

	rows, err = s.List(ctx, 2, 99)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.ReplaceAll(ctx, sampleRows(1)))

	rows, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	rows[0].ProductName = "mutated"

	again, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "product", again[0].ProductName)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.ReplaceAll(ctx, sampleRows(10))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.List(ctx, 0, 0)
		}()
	}
	wg.Wait()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}
