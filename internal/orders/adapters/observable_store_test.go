package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dejobratic/sharedorders/internal/database"
	"github.com/dejobratic/sharedorders/internal/orders/adapters/memory"
	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

type failingStore struct{}

func (failingStore) GetList(context.Context, string) ([]domain.OrderItem, error) {
	return nil, fmt.Errorf("%w: boom", ports.ErrUnavailable)
}

func (failingStore) SetList(context.Context, string, []domain.OrderItem) error {
	return fmt.Errorf("%w: boom", ports.ErrUnavailable)
}

func setup(t *testing.T, inner ports.ListStore) (*ObservableStore, *tracetest.InMemoryExporter, *sdkmetric.ManualReader) {
	t.Helper()

	exp := tracetest.NewInMemoryExporter()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	reader := sdkmetric.NewManualReader()
	metrics, err := database.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"), "memory")
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	return NewObservableStore(inner, metrics), exp, reader
}

func countPoints(t *testing.T, reader *sdkmetric.ManualReader) uint64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if hist, ok := m.Data.(metricdata.Histogram[float64]); ok {
				for _, dp := range hist.DataPoints {
					total += dp.Count
				}
			}
		}
	}
	return total
}

func TestObservableStore(t *testing.T) {
	ctx := context.Background()

	t.Run("passes calls through and records spans", func(t *testing.T) {
		store, exp, reader := setup(t, memory.NewStore())

		if err := store.SetList(ctx, "shared-data", []domain.OrderItem{{ID: "1"}}); err != nil {
			t.Fatalf("SetList: %v", err)
		}
		items, err := store.GetList(ctx, "shared-data")
		if err != nil {
			t.Fatalf("GetList: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("expected 1 item, got %d", len(items))
		}

		spans := exp.GetSpans()
		if len(spans) != 2 || spans[0].Name != "ListStore.SetList" || spans[1].Name != "ListStore.GetList" {
			t.Fatalf("unexpected spans %v", spans)
		}
		for _, s := range spans {
			if s.Status.Code != codes.Ok {
				t.Errorf("expected ok status on %s", s.Name)
			}
		}
		if got := countPoints(t, reader); got != 2 {
			t.Errorf("expected 2 recorded operations, got %d", got)
		}
	})

	t.Run("marks failures on the span", func(t *testing.T) {
		store, exp, _ := setup(t, failingStore{})

		_, err := store.GetList(ctx, "shared-data")
		if !errors.Is(err, ports.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
		if exp.GetSpans()[0].Status.Code != codes.Error {
			t.Error("expected error status")
		}
	})

	t.Run("ping forwards to health checkers only", func(t *testing.T) {
		store, _, reader := setup(t, memory.NewStore())
		if err := store.Ping(ctx); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
		if got := countPoints(t, reader); got != 1 {
			t.Errorf("expected ping to be timed, got %d", got)
		}

		plain, _, _ := setup(t, failingStore{})
		if err := plain.Ping(ctx); err != nil {
			t.Errorf("expected stores without Ping to be healthy, got %v", err)
		}
	})
}
