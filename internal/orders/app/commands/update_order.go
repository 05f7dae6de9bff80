package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

type UpdateOrderCommand struct {
	Patch domain.Patch
}

func (c UpdateOrderCommand) Validate() error {
	if strings.TrimSpace(c.Patch.ID) == "" {
		return fmt.Errorf("%w: id is required", ports.ErrInvalidInput)
	}
	return nil
}

type UpdateHandler interface {
	Handle(ctx context.Context, cmd UpdateOrderCommand) (*domain.OrderItem, error)
}

// UpdateOrderCommandHandler rewrites the first item whose id matches the
// patch. Like appends it is an unguarded read-modify-write of the whole list.
type UpdateOrderCommandHandler struct {
	store ports.ListStore
	key   string
}

func NewUpdateOrderCommandHandler(store ports.ListStore, key string) *UpdateOrderCommandHandler {
	return &UpdateOrderCommandHandler{store: store, key: key}
}

func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*domain.OrderItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := h.store.GetList(ctx, h.key)
	if err != nil {
		return nil, fmt.Errorf("read order list: %w", err)
	}

	idx := -1
	for i := range items {
		if items[i].ID == cmd.Patch.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, cmd.Patch.ID)
	}

	items[idx] = items[idx].Apply(cmd.Patch)
	updated := items[idx]

	if err := h.store.SetList(ctx, h.key, items); err != nil {
		return nil, fmt.Errorf("write order list: %w", err)
	}

	return &updated, nil
}
