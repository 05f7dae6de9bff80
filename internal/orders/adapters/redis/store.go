package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

// Store keeps each list as one JSON string value. Values never expire.
type Store struct {
	client goredis.UniversalClient
}

func NewStore(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) GetList(ctx context.Context, key string) ([]domain.OrderItem, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return []domain.OrderItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get %q: %v", ports.ErrUnavailable, key, err)
	}

	items, err := domain.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	return items, nil
}

func (s *Store) SetList(ctx context.Context, key string, items []domain.OrderItem) error {
	raw, err := domain.EncodeList(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %q: %v", ports.ErrUnavailable, key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping: %v", ports.ErrUnavailable, err)
	}
	return nil
}
