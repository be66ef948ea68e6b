package wallet

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu           sync.RWMutex
	transactions []Transaction
}

// NewMemoryRepository builds an in-memory transaction store for
// development and testing.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{inner: &memoryRepository{}}
}

// MemoryRepository wraps the in-memory store with a seeding helper.
type MemoryRepository struct {
	inner *memoryRepository
}

// Add records a transaction, used to seed test data.
func (r *MemoryRepository) Add(tx Transaction) {
	r.inner.mu.Lock()
	defer r.inner.mu.Unlock()
	r.inner.transactions = append(r.inner.transactions, tx)
}

// ListByUser returns the most recent transactions for a user.
func (r *MemoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]Transaction, error) {
	r.inner.mu.RLock()
	defer r.inner.mu.RUnlock()

	var list []Transaction
	for _, tx := range r.inner.transactions {
		if tx.UserID == userID {
			list = append(list, tx)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
