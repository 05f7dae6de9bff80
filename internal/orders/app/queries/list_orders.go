package queries

import (
	"context"
	"fmt"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

// ListOrdersQuery requests the whole stored list.
type ListOrdersQuery struct{}

// ListOrdersQueryHandler returns the stored list verbatim, soft-deleted items
// included, in storage order.
type ListOrdersQueryHandler struct {
	store ports.ListStore
	key   string
}

// NewListOrdersQueryHandler constructs a ListOrdersQueryHandler.
func NewListOrdersQueryHandler(store ports.ListStore, key string) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{store: store, key: key}
}

// Handle reads the list from the store.
func (h *ListOrdersQueryHandler) Handle(ctx context.Context, _ ListOrdersQuery) ([]domain.OrderItem, error) {
	items, err := h.store.GetList(ctx, h.key)
	if err != nil {
		return nil, fmt.Errorf("read order list: %w", err)
	}
	if items == nil {
		items = []domain.OrderItem{}
	}
	return items, nil
}
