package logger

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/log"
)

var severities = map[LogLevel]log.Severity{
	LevelTrace: log.SeverityTrace,
	LevelDebug: log.SeverityDebug,
	LevelInfo:  log.SeverityInfo,
	LevelWarn:  log.SeverityWarn,
	LevelError: log.SeverityError,
}

// otelBridge forwards log calls to an OpenTelemetry log.Logger so they reach
// the collector alongside the spans of the same request.
type otelBridge struct {
	ctx   context.Context
	scope string
	attrs map[string]log.Value
	level LogLevel
	sink  log.Logger
}

var _ Logger = (*otelBridge)(nil)

// NewOtelLogger returns a Logger that emits records at or above level to sink.
func NewOtelLogger(sink log.Logger, level LogLevel) Logger {
	return &otelBridge{
		ctx:   context.Background(),
		attrs: map[string]log.Value{},
		level: level,
		sink:  sink,
	}
}

func (b *otelBridge) derive() *otelBridge {
	c := *b
	c.attrs = maps.Clone(b.attrs)
	return &c
}

// logValue maps the values this module puts in log metadata onto typed
// OTel values. Anything else is rendered with %v.
func logValue(v interface{}) log.Value {
	switch v := v.(type) {
	case string:
		return log.StringValue(v)
	case int:
		return log.IntValue(v)
	case int64:
		return log.Int64Value(v)
	case bool:
		return log.BoolValue(v)
	case float64:
		return log.Float64Value(v)
	case time.Duration:
		return log.StringValue(v.String())
	case time.Time:
		return log.StringValue(v.UTC().Format(time.RFC3339))
	case error:
		return log.StringValue(v.Error())
	case []int:
		ids := make([]log.Value, len(v))
		for i, id := range v {
			ids[i] = log.IntValue(id)
		}
		return log.SliceValue(ids...)
	case []byte:
		return log.BytesValue(v)
	case fmt.Stringer:
		return log.StringValue(v.String())
	default:
		return log.StringValue(fmt.Sprintf("%v", v))
	}
}

func (b *otelBridge) With(metadata map[string]interface{}) Logger {
	c := b.derive()
	for k, v := range metadata {
		c.attrs[k] = logValue(v)
	}
	return c
}

func (b *otelBridge) WithPrefix(prefix string) Logger {
	c := b.derive()
	c.scope = strings.TrimSpace(c.scope + " " + prefix)
	return c
}

// WithContext binds ctx to emitted records so the collector can attach them
// to the active span.
func (b *otelBridge) WithContext(ctx context.Context) Logger {
	c := b.derive()
	c.ctx = ctx
	return c
}

func (b *otelBridge) emit(level LogLevel, severity log.Severity, msg string, args []interface{}) {
	if level < b.level {
		return
	}
	body := fmt.Sprintf(msg, args...)
	if b.scope != "" {
		body = b.scope + " " + body
	}

	var rec log.Record
	ts := time.Now()
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(ts)
	rec.SetSeverity(severity)
	rec.SetSeverityText(severity.String())
	rec.SetBody(log.StringValue(body))
	kvs := make([]log.KeyValue, 0, len(b.attrs))
	for k, v := range b.attrs {
		kvs = append(kvs, log.KeyValue{Key: k, Value: v})
	}
	rec.AddAttributes(kvs...)
	b.sink.Emit(b.ctx, rec)
}

func (b *otelBridge) Trace(msg string, args ...interface{}) {
	b.emit(LevelTrace, severities[LevelTrace], msg, args)
}

func (b *otelBridge) Debug(msg string, args ...interface{}) {
	b.emit(LevelDebug, severities[LevelDebug], msg, args)
}

func (b *otelBridge) Info(msg string, args ...interface{}) {
	b.emit(LevelInfo, severities[LevelInfo], msg, args)
}

func (b *otelBridge) Warn(msg string, args ...interface{}) {
	b.emit(LevelWarn, severities[LevelWarn], msg, args)
}

func (b *otelBridge) Error(msg string, args ...interface{}) {
	b.emit(LevelError, severities[LevelError], msg, args)
}

// Fatal emits at fatal severity and exits with code 1.
func (b *otelBridge) Fatal(msg string, args ...interface{}) {
	b.emit(LevelError, log.SeverityFatal, msg, args)
	os.Exit(1)
}
