// Package telemetry wires the component packages' telemetry hooks to zap.
package telemetry

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-grocery/components/catalog"
	catalogcmd "github.com/goliatone/go-grocery/components/catalog/commands"
	"github.com/goliatone/go-grocery/components/dashboard"
	"github.com/goliatone/go-grocery/components/orders"
	ordercmd "github.com/goliatone/go-grocery/components/orders/commands"
)

// NewLogger builds a production JSON logger at the given level. An unknown
// level falls back to info.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Recorder forwards component telemetry events to a zap logger. Every
// component package declares the same Record hook, so one recorder serves
// them all.
type Recorder struct {
	logger *zap.Logger
}

var (
	_ catalog.Telemetry    = (*Recorder)(nil)
	_ orders.Telemetry     = (*Recorder)(nil)
	_ dashboard.Telemetry  = (*Recorder)(nil)
	_ catalogcmd.Telemetry = (*Recorder)(nil)
	_ ordercmd.Telemetry   = (*Recorder)(nil)
)

// NewRecorder wraps logger. A nil logger records nothing.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger}
}

// Record logs one event at info with the payload as fields. Keys are
// sorted so entries stay stable across runs.
func (r *Recorder) Record(_ context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, payload[k]))
	}
	r.logger.Info(event, fields...)
}
