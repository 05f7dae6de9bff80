package ports

import (
	"context"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
)

// ListStore wraps the blob key-value store holding the whole order list under
// one key. There is no partial update, retry or transaction: every mutation
// is a full read followed by a full write.
type ListStore interface {
	// GetList returns the stored list, or an empty list when the key is absent.
	GetList(ctx context.Context, key string) ([]domain.OrderItem, error)
	// SetList overwrites the value at key with the given list.
	SetList(ctx context.Context, key string, items []domain.OrderItem) error
}

// HealthChecker is implemented by stores that can verify their backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
