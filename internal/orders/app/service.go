package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/sharedorders/internal/orders/app/commands"
	"github.com/dejobratic/sharedorders/internal/orders/app/queries"
	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/metrics"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
	"github.com/dejobratic/sharedorders/internal/telemetry"
)

// Service bundles the list mutation use cases behind the HTTP surface.
type Service struct {
	listHandler   *queries.ListOrdersQueryHandler
	appendHandler commands.AppendHandler
	updateHandler commands.UpdateHandler
	idemStore     ports.IdempotencyStore
	metrics       *metrics.Metrics
}

// NewService wires required dependencies. Every operation works on the list
// stored under key.
func NewService(
	store ports.ListStore,
	key string,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	appendHandler := commands.NewObservableAppendHandler(
		commands.NewAppendOrderCommandHandler(store, key), logger, metrics,
	)
	updateHandler := commands.NewObservableUpdateHandler(
		commands.NewUpdateOrderCommandHandler(store, key), logger, metrics,
	)

	return &Service{
		listHandler:   queries.NewListOrdersQueryHandler(store, key),
		appendHandler: appendHandler,
		updateHandler: updateHandler,
		idemStore:     idem,
		metrics:       metrics,
	}
}

// ListOrders returns the stored list verbatim.
func (s *Service) ListOrders(ctx context.Context) ([]domain.OrderItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "ListOrdersQuery.Handle")
	defer span.End()

	start := time.Now()
	items, err := s.listHandler.Handle(ctx, queries.ListOrdersQuery{})
	s.metrics.RecordDuration(ctx, metrics.OperationList, time.Since(start).Seconds())
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	s.metrics.RecordListSize(ctx, len(items))
	telemetry.SetSpanSuccess(span)
	return items, nil
}

// AppendOrder validates the input and appends a new item.
func (s *Service) AppendOrder(ctx context.Context, input domain.NewOrder) (*domain.OrderItem, error) {
	return s.appendHandler.Handle(ctx, commands.AppendOrderCommand{
		Content:   input.Content,
		OrderDate: input.OrderDate,
		Location:  input.Location,
		Product:   input.Product,
	})
}

// UpdateOrder merges patch into the item with the matching id.
func (s *Service) UpdateOrder(ctx context.Context, patch domain.Patch) (*domain.OrderItem, error) {
	return s.updateHandler.Handle(ctx, commands.UpdateOrderCommand{Patch: patch})
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
