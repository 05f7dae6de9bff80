package http

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	metrics, err := NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestRecordRequest(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RequestStarted(ctx)
	metrics.RecordRequest(ctx, "GET", "/api/shared-data", 200, 0.01)
	metrics.RequestStarted(ctx)
	metrics.RecordRequest(ctx, "POST", "/api/shared-data", 201, 0.02)
	metrics.RequestStarted(ctx)

	data := collect(t, reader)

	sum, ok := data["http_requests_total"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64] for http_requests_total, got %T", data["http_requests_total"])
	}
	if len(sum.DataPoints) != 2 {
		t.Errorf("expected 2 data points, got %d", len(sum.DataPoints))
	}
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key("route")); !ok || v.AsString() != "/api/shared-data" {
			t.Errorf("expected route label, got %v", dp.Attributes)
		}
	}

	hist, ok := data["http_request_duration_seconds"].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 2 {
		t.Errorf("expected duration histogram with 2 points, got %v", data["http_request_duration_seconds"])
	}

	flight, ok := data["http_requests_in_flight"].(metricdata.Sum[int64])
	if !ok || len(flight.DataPoints) != 1 || flight.DataPoints[0].Value != 1 {
		t.Errorf("expected one request in flight, got %v", data["http_requests_in_flight"])
	}
}
