package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown key returns nil", func(t *testing.T) {
		resp, err := NewStore(time.Hour).Get(ctx, "missing")
		if err != nil || resp != nil {
			t.Errorf("expected nil, nil; got %v, %v", resp, err)
		}
	})

	t.Run("first save wins", func(t *testing.T) {
		store := NewStore(time.Hour)
		_ = store.Save(ctx, "k", ports.StoredResponse{StatusCode: 201, Body: []byte(`{"a":1}`), ItemID: "first"})
		_ = store.Save(ctx, "k", ports.StoredResponse{StatusCode: 201, Body: []byte(`{"a":2}`), ItemID: "second"})

		resp, err := store.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if resp.ItemID != "first" || string(resp.Body) != `{"a":1}` {
			t.Errorf("expected first response, got %+v", resp)
		}
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		store := NewStore(time.Minute)
		now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return now }

		_ = store.Save(ctx, "k", ports.StoredResponse{StatusCode: 201, ItemID: "old"})
		now = now.Add(2 * time.Minute)

		if resp, _ := store.Get(ctx, "k"); resp != nil {
			t.Fatalf("expected expired entry to be gone, got %+v", resp)
		}

		_ = store.Save(ctx, "k", ports.StoredResponse{StatusCode: 201, ItemID: "new"})
		if resp, _ := store.Get(ctx, "k"); resp == nil || resp.ItemID != "new" {
			t.Errorf("expected new entry after expiry, got %+v", resp)
		}
	})

	t.Run("returned body is a copy", func(t *testing.T) {
		store := NewStore(0)
		_ = store.Save(ctx, "k", ports.StoredResponse{Body: []byte("abc")})

		resp, _ := store.Get(ctx, "k")
		resp.Body[0] = 'x'

		again, _ := store.Get(ctx, "k")
		if string(again.Body) != "abc" {
			t.Errorf("stored body mutated: %s", again.Body)
		}
	})
}
