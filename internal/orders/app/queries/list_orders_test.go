package queries_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dejobratic/sharedorders/internal/orders/app/queries"
	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

type stubStore struct {
	items []domain.OrderItem
	err   error
	keys  []string
}

func (s *stubStore) GetList(_ context.Context, key string) ([]domain.OrderItem, error) {
	s.keys = append(s.keys, key)
	return s.items, s.err
}

func (s *stubStore) SetList(context.Context, string, []domain.OrderItem) error {
	return errors.New("list query must not write")
}

func TestListOrders(t *testing.T) {
	t.Run("returns the stored list verbatim including soft deletes", func(t *testing.T) {
		store := &stubStore{items: []domain.OrderItem{
			{ID: "b"}, {ID: "a", IsDeleted: true}, {ID: "c", Completed: true},
		}}
		handler := queries.NewListOrdersQueryHandler(store, "shared-data")

		items, err := handler.Handle(context.Background(), queries.ListOrdersQuery{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		for i, want := range []string{"b", "a", "c"} {
			if items[i].ID != want {
				t.Errorf("item %d: expected %s, got %s", i, want, items[i].ID)
			}
		}
		if len(store.keys) != 1 || store.keys[0] != "shared-data" {
			t.Errorf("expected one read of shared-data, got %v", store.keys)
		}
	})

	t.Run("returns an empty list when nothing is stored", func(t *testing.T) {
		handler := queries.NewListOrdersQueryHandler(&stubStore{}, "shared-data")

		items, err := handler.Handle(context.Background(), queries.ListOrdersQuery{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("expected empty non-nil list, got %#v", items)
		}
	})

	t.Run("surfaces store faults as unavailable", func(t *testing.T) {
		store := &stubStore{err: fmt.Errorf("%w: i/o timeout", ports.ErrUnavailable)}
		handler := queries.NewListOrdersQueryHandler(store, "shared-data")

		_, err := handler.Handle(context.Background(), queries.ListOrdersQuery{})
		if ports.Kind(err) != ports.KindUnavailable {
			t.Errorf("expected unavailable, got %v", err)
		}
	})
}
