package quiz

import (
	"context"
	"sync"
)

// MemoryRepository is an in-process item bank.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Item
}

func NewMemoryRepository(items ...Item) *MemoryRepository {
	return &MemoryRepository{items: append([]Item(nil), items...)}
}

func (m *MemoryRepository) ListPublished(_ context.Context) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	published := make([]Item, 0, len(m.items))
	for _, item := range m.items {
		if item.Published {
			published = append(published, item)
		}
	}
	return published, nil
}
