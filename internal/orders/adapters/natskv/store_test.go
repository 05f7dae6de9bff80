package natskv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

func startServer(t *testing.T) *server.Server {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded nats server failed to start")
	}
	t.Cleanup(ns.Shutdown)

	return ns
}

func setupStore(t *testing.T) (*Store, *nats.Conn) {
	t.Helper()

	ns := startServer(t)
	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	store, err := NewStore(context.Background(), nc, "orders")
	require.NoError(t, err)

	return store, nc
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key is an empty list", func(t *testing.T) {
		store, _ := setupStore(t)

		items, err := store.GetList(ctx, "shared-data")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("last write replaces the list", func(t *testing.T) {
		store, _ := setupStore(t)

		require.NoError(t, store.SetList(ctx, "shared-data", []domain.OrderItem{{ID: "1", Content: "a"}}))
		require.NoError(t, store.SetList(ctx, "shared-data", []domain.OrderItem{{ID: "1", Content: "a", Completed: true}, {ID: "2", Content: "b"}}))

		items, err := store.GetList(ctx, "shared-data")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.True(t, items[0].Completed)
		assert.Equal(t, "2", items[1].ID)
	})

	t.Run("reopening the bucket keeps stored lists", func(t *testing.T) {
		store, nc := setupStore(t)
		require.NoError(t, store.SetList(ctx, "shared-data", []domain.OrderItem{{ID: "kept"}}))

		reopened, err := NewStore(ctx, nc, "orders")
		require.NoError(t, err)

		items, err := reopened.GetList(ctx, "shared-data")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "kept", items[0].ID)
	})

	t.Run("ping reports closed connections", func(t *testing.T) {
		store, nc := setupStore(t)
		require.NoError(t, store.Ping(ctx))

		nc.Close()
		err := store.Ping(ctx)
		assert.True(t, errors.Is(err, ports.ErrUnavailable), "got %v", err)
	})
}
