package database

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	OperationGet  = "get"
	OperationSet  = "set"
	OperationPing = "ping"
)

// Metrics records latency of calls into whichever list store backs the service.
type Metrics struct {
	backend  string
	duration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter, backend string) (*Metrics, error) {
	duration, err := meter.Float64Histogram(
		"store_operation_duration_seconds",
		metric.WithDescription("Latency of list store operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create store_operation_duration histogram: %w", err)
	}

	return &Metrics{backend: backend, duration: duration}, nil
}

func (m *Metrics) Backend() string {
	return m.backend
}

func (m *Metrics) RecordOperation(ctx context.Context, operation string, durationSeconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.duration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("backend", m.backend),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}
