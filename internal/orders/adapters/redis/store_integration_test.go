//go:build integration

package redis_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dejobratic/sharedorders/internal/orders/adapters/redis"
	"github.com/dejobratic/sharedorders/internal/orders/app/commands"
	"github.com/dejobratic/sharedorders/internal/testutil"
)

func TestStoreAgainstRedis(t *testing.T) {
	client := testutil.StartRedis(t)
	store := redis.NewStore(client)
	ctx := context.Background()

	handler := commands.NewAppendOrderCommandHandler(store, "shared-data")
	for _, content := range []string{"paneer", "cheese"} {
		if _, err := handler.Handle(ctx, commands.AppendOrderCommand{Content: content}); err != nil {
			t.Fatalf("append %s: %v", content, err)
		}
	}

	items, err := store.GetList(ctx, "shared-data")
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if len(items) != 2 || items[0].Content != "paneer" || items[1].Content != "cheese" {
		t.Errorf("unexpected list %+v", items)
	}
}

// Concurrent appends are only guaranteed to keep at least one of them.
func TestConcurrentAppendsMayLoseWrites(t *testing.T) {
	client := testutil.StartRedis(t)
	store := redis.NewStore(client)
	ctx := context.Background()

	handler := commands.NewAppendOrderCommandHandler(store, "shared-data")

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = handler.Handle(ctx, commands.AppendOrderCommand{Content: "race"})
		}()
	}
	wg.Wait()

	items, err := store.GetList(ctx, "shared-data")
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if len(items) < 1 || len(items) > writers {
		t.Errorf("expected between 1 and %d items, got %d", writers, len(items))
	}
	t.Logf("%d of %d concurrent appends survived", len(items), writers)
}
