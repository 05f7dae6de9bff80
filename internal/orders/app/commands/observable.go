package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/metrics"
	"github.com/dejobratic/sharedorders/internal/telemetry"
)

type ObservableAppendHandler struct {
	handler AppendHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableAppendHandler(handler AppendHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableAppendHandler {
	return &ObservableAppendHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableAppendHandler) Handle(ctx context.Context, cmd AppendOrderCommand) (*domain.OrderItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "AppendOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordDuration(ctx, metrics.OperationAppend, time.Since(start).Seconds())
		o.metrics.RecordMutation(ctx, metrics.OperationAppend, success)
	}()

	o.logger.InfoContext(ctx, "appending order",
		"location", cmd.Location,
		"product", cmd.Product,
	)

	item, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to append order", "error", err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", item.ID),
		attribute.String("order.location", item.Location),
		attribute.String("order.product", item.Product),
	)

	o.logger.InfoContext(ctx, "order appended", "order_id", item.ID)

	success = true
	telemetry.SetSpanSuccess(span)

	return item, nil
}

type ObservableUpdateHandler struct {
	handler UpdateHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableUpdateHandler(handler UpdateHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableUpdateHandler {
	return &ObservableUpdateHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableUpdateHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*domain.OrderItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "UpdateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordDuration(ctx, metrics.OperationUpdate, time.Since(start).Seconds())
		o.metrics.RecordMutation(ctx, metrics.OperationUpdate, success)
	}()

	attrs := []attribute.KeyValue{attribute.String("order.id", cmd.Patch.ID)}
	if cmd.Patch.Completed != nil {
		attrs = append(attrs, attribute.Bool("patch.completed", *cmd.Patch.Completed))
	}
	if cmd.Patch.IsDeleted != nil {
		attrs = append(attrs, attribute.Bool("patch.is_deleted", *cmd.Patch.IsDeleted))
	}
	telemetry.AddSpanAttributes(span, attrs...)

	item, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to update order", "error", err, "order_id", cmd.Patch.ID)
		return nil, err
	}

	o.logger.InfoContext(ctx, "order updated",
		"order_id", item.ID,
		"completed", item.Completed,
		"is_deleted", item.IsDeleted,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return item, nil
}
