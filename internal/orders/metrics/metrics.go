package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	OperationAppend = "append"
	OperationUpdate = "update"
	OperationList   = "list"
)

type Metrics struct {
	mutationsTotal   metric.Int64Counter
	mutationDuration metric.Float64Histogram
	listSize         metric.Int64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.mutationsTotal, err = meter.Int64Counter(
		"order_mutations_total",
		metric.WithDescription("Total number of order list mutations"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_mutations_total counter: %w", err)
	}

	m.mutationDuration, err = meter.Float64Histogram(
		"order_operation_duration_seconds",
		metric.WithDescription("Duration of order operations including the store round trips"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_operation_duration histogram: %w", err)
	}

	m.listSize, err = meter.Int64Histogram(
		"order_list_size",
		metric.WithDescription("Number of items in the order list when read"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_list_size histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordMutation(ctx context.Context, operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.mutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordDuration(ctx context.Context, operation string, durationSeconds float64) {
	m.mutationDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (m *Metrics) RecordListSize(ctx context.Context, size int) {
	m.listSize.Record(ctx, int64(size))
}
