package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.InfoContext(context.Background(), "order appended")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %s", buf.String())
	}

	logger.WarnContext(context.Background(), "store slow")
	entry := decodeEntry(t, &buf)
	if entry["msg"] != "store slow" {
		t.Errorf("expected msg 'store slow', got %v", entry["msg"])
	}
}

func TestLoggerTraceIDs(t *testing.T) {
	t.Run("adds trace and span ids inside a span", func(t *testing.T) {
		setupTracerProvider(t)

		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo)

		ctx, span := StartSpan(context.Background(), "AppendOrderCommand.Handle")
		defer span.End()

		logger.InfoContext(ctx, "order appended", "order_id", "abc")

		entry := decodeEntry(t, &buf)
		if entry["trace_id"] != span.SpanContext().TraceID().String() {
			t.Errorf("unexpected trace_id %v", entry["trace_id"])
		}
		if entry["span_id"] != span.SpanContext().SpanID().String() {
			t.Errorf("unexpected span_id %v", entry["span_id"])
		}
		if entry["order_id"] != "abc" {
			t.Errorf("expected order_id abc, got %v", entry["order_id"])
		}
	})

	t.Run("omits ids without a span", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, slog.LevelInfo).InfoContext(context.Background(), "listing")

		entry := decodeEntry(t, &buf)
		if _, ok := entry["trace_id"]; ok {
			t.Error("expected no trace_id")
		}
		if _, ok := entry["span_id"]; ok {
			t.Error("expected no span_id")
		}
	})

	t.Run("keeps ids at the root when grouped", func(t *testing.T) {
		setupTracerProvider(t)

		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo).With("component", "http").WithGroup("request")

		ctx, span := StartSpan(context.Background(), "request")
		defer span.End()

		logger.InfoContext(ctx, "handled", "method", "PATCH", "path", "/api/shared-data")

		entry := decodeEntry(t, &buf)
		if _, ok := entry["trace_id"].(string); !ok {
			t.Fatal("expected trace_id at root level")
		}
		if entry["component"] != "http" {
			t.Errorf("expected component attr at root, got %v", entry["component"])
		}
		group, ok := entry["request"].(map[string]any)
		if !ok {
			t.Fatalf("expected request group, got %v", entry)
		}
		if group["method"] != "PATCH" {
			t.Errorf("expected method PATCH, got %v", group["method"])
		}
		if _, nested := group["trace_id"]; nested {
			t.Error("trace_id must not be nested in the group")
		}
	})
}
