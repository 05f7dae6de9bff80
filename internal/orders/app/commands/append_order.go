package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

type AppendOrderCommand struct {
	Content   string
	OrderDate *time.Time
	Location  string
	Product   string
}

func (c AppendOrderCommand) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("%w: content is required", ports.ErrInvalidInput)
	}
	return nil
}

type AppendHandler interface {
	Handle(ctx context.Context, cmd AppendOrderCommand) (*domain.OrderItem, error)
}

// AppendOrderCommandHandler adds an item at the end of the shared list.
//
// The read and the write are two separate store calls with nothing in
// between guarding the key. Two appends racing on the same key can lose one
// of them: the later write replaces the whole list the earlier one produced.
type AppendOrderCommandHandler struct {
	store ports.ListStore
	key   string
	now   func() time.Time
	newID func() string
}

func NewAppendOrderCommandHandler(store ports.ListStore, key string) *AppendOrderCommandHandler {
	return &AppendOrderCommandHandler{
		store: store,
		key:   key,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock overrides the time source used for default order dates.
func (h *AppendOrderCommandHandler) WithClock(now func() time.Time) *AppendOrderCommandHandler {
	h.now = now
	return h
}

func (h *AppendOrderCommandHandler) Handle(ctx context.Context, cmd AppendOrderCommand) (*domain.OrderItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := h.store.GetList(ctx, h.key)
	if err != nil {
		return nil, fmt.Errorf("read order list: %w", err)
	}

	item := domain.NewOrder{
		Content:   cmd.Content,
		OrderDate: cmd.OrderDate,
		Location:  cmd.Location,
		Product:   cmd.Product,
	}.Build(h.newID(), h.now())

	items = append(items, item)

	if err := h.store.SetList(ctx, h.key, items); err != nil {
		return nil, fmt.Errorf("write order list: %w", err)
	}

	return &item, nil
}
