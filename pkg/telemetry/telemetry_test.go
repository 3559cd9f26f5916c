package telemetry

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerHonorsLevel(t *testing.T) {
	logger, err := NewLogger("error")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("expected error level enabled")
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected info level disabled")
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger("chatty")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected info level enabled")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level disabled")
	}
}

func TestRecorderLogsEventWithSortedFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := NewRecorder(zap.New(core))

	rec.Record(context.Background(), "catalog.load", map[string]any{
		"low_stock": 1,
		"count":     3,
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "catalog.load" {
		t.Fatalf("unexpected message %q", entry.Message)
	}
	if len(entry.Context) != 2 || entry.Context[0].Key != "count" || entry.Context[1].Key != "low_stock" {
		t.Fatalf("expected sorted fields, got %#v", entry.Context)
	}
	fields := entry.ContextMap()
	if fields["count"] != int64(3) {
		t.Fatalf("unexpected count field: %#v", fields["count"])
	}
}

func TestRecorderNilLogger(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Record(context.Background(), "noop.event", nil)
}
