package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

// Store keeps encoded lists in process memory. Values are stored as JSON so
// callers never share slices with the store.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) GetList(_ context.Context, key string) ([]domain.OrderItem, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()

	if !ok {
		return []domain.OrderItem{}, nil
	}

	items, err := domain.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	return items, nil
}

func (s *Store) SetList(_ context.Context, key string, items []domain.OrderItem) error {
	raw, err := domain.EncodeList(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}
