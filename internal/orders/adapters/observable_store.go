package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/sharedorders/internal/database"
	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
	"github.com/dejobratic/sharedorders/internal/telemetry"
)

// ObservableStore traces and times every call into the wrapped list store.
type ObservableStore struct {
	store   ports.ListStore
	metrics *database.Metrics
}

func NewObservableStore(store ports.ListStore, metrics *database.Metrics) *ObservableStore {
	return &ObservableStore{store: store, metrics: metrics}
}

func (s *ObservableStore) GetList(ctx context.Context, key string) ([]domain.OrderItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "ListStore.GetList")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("store.backend", s.metrics.Backend()),
		attribute.String("store.key", key),
		attribute.String("operation", database.OperationGet),
	)

	start := time.Now()
	items, err := s.store.GetList(ctx, key)
	s.metrics.RecordOperation(ctx, database.OperationGet, time.Since(start).Seconds(), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(items)))
	telemetry.SetSpanSuccess(span)
	return items, nil
}

func (s *ObservableStore) SetList(ctx context.Context, key string, items []domain.OrderItem) error {
	ctx, span := telemetry.StartSpan(ctx, "ListStore.SetList")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("store.backend", s.metrics.Backend()),
		attribute.String("store.key", key),
		attribute.String("operation", database.OperationSet),
		attribute.Int("list.size", len(items)),
	)

	start := time.Now()
	err := s.store.SetList(ctx, key, items)
	s.metrics.RecordOperation(ctx, database.OperationSet, time.Since(start).Seconds(), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

// Ping forwards to the wrapped store. Stores without a health check are
// always considered reachable.
func (s *ObservableStore) Ping(ctx context.Context) error {
	checker, ok := s.store.(ports.HealthChecker)
	if !ok {
		return nil
	}

	start := time.Now()
	err := checker.Ping(ctx)
	s.metrics.RecordOperation(ctx, database.OperationPing, time.Since(start).Seconds(), err)
	return err
}
