package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
)

type recordingLogger struct {
	noop.Logger
	mu      sync.Mutex
	records []log.Record
}

func (r *recordingLogger) Emit(ctx context.Context, record log.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

func (r *recordingLogger) all() []log.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]log.Record(nil), r.records...)
}

func TestOtelLoggerWithMergesMetadata(t *testing.T) {
	logger := NewOtelLogger(noop.NewLoggerProvider().Logger("test"), LevelTrace)

	baseLogger := logger.With(map[string]interface{}{
		"base_key": "base_value",
		"shared":   "from_base",
	}).(*otelBridge)

	extendedLogger := baseLogger.With(map[string]interface{}{
		"extra_key": "extra_value",
		"shared":    "from_extended",
	}).(*otelBridge)

	assert.Equal(t, 3, len(extendedLogger.attrs))
	assert.Equal(t, "base_value", extendedLogger.attrs["base_key"].AsString())
	assert.Equal(t, "extra_value", extendedLogger.attrs["extra_key"].AsString())
	assert.Equal(t, "from_extended", extendedLogger.attrs["shared"].AsString())
	assert.Equal(t, "from_base", baseLogger.attrs["shared"].AsString())
}

func TestOtelLoggerEmits(t *testing.T) {
	rec := &recordingLogger{}
	logger := NewOtelLogger(rec, LevelInfo).WithPrefix("[items]").With(map[string]interface{}{"batch": 7})

	logger.Debug("dropped")
	logger.Info("loading %d items", 3)
	logger.Error("boom")

	records := rec.all()
	require.Len(t, records, 2)
	assert.Equal(t, "[items] loading 3 items", records[0].Body().AsString())
	assert.Equal(t, log.SeverityInfo, records[0].Severity())
	assert.Equal(t, log.SeverityError, records[1].Severity())

	var batch int64
	records[0].WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key == "batch" {
			batch = kv.Value.AsInt64()
		}
		return true
	})
	assert.Equal(t, int64(7), batch)
}

func TestLogValue(t *testing.T) {
	assert.Equal(t, "1m30s", logValue(90*time.Second).AsString())
	assert.Equal(t, "boom", logValue(errors.New("boom")).AsString())
	assert.Equal(t, "2023-11-14T22:13:20Z", logValue(time.Unix(1_700_000_000, 0)).AsString())
	assert.Equal(t, log.KindInt64, logValue(int64(3)).Kind())

	ids := logValue([]int{1, 2}).AsSlice()
	require.Len(t, ids, 2)
	assert.Equal(t, int64(2), ids[1].AsInt64())
}

func TestMultiLogger(t *testing.T) {
	a := NewTestLogger()
	b := NewTestLogger()
	logger := NewMultiLogger(a, b).With(map[string]interface{}{"k": "v"})

	logger.Info("hello %s", "world")
	logger.Warn("careful")

	for _, l := range []*TestLogger{a, b} {
		entries := l.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "hello world", entries[0].String())
		assert.Equal(t, "WARNING", entries[1].Severity)
	}
}
