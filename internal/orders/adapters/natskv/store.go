package natskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

const historyDepth = 5

// Store keeps each list as one entry of a JetStream key-value bucket. The
// bucket keeps a few past revisions of every key.
type Store struct {
	nc *nats.Conn
	kv jetstream.KeyValue
}

// NewStore binds to bucket, creating it when it does not exist yet.
func NewStore(ctx context.Context, nc *nats.Conn, bucket string) (*Store, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "shared order lists",
		History:     historyDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("create/update kv bucket %q: %w", bucket, err)
	}

	return &Store{nc: nc, kv: kv}, nil
}

func (s *Store) GetList(ctx context.Context, key string) ([]domain.OrderItem, error) {
	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return []domain.OrderItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: kv get %q: %v", ports.ErrUnavailable, key, err)
	}

	items, err := domain.DecodeList(entry.Value())
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

	if _, err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: kv put %q: %v", ports.ErrUnavailable, key, err)
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	if _, err := s.nc.RTT(); err != nil {
		return fmt.Errorf("%w: nats rtt: %v", ports.ErrUnavailable, err)
	}
	return nil
}
