package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/agentuity/go-hn/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type collector struct {
	mu    sync.Mutex
	paths map[string]int
	auth  string
}

func (c *collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.paths[r.URL.Path]++
	c.auth = r.Header.Get("Authorization")
	c.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (c *collector) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths[path]
}

func restoreGlobals(t *testing.T) {
	tp := otel.GetTracerProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestNewExportsTracesAndLogs(t *testing.T) {
	restoreGlobals(t)
	c := &collector{paths: make(map[string]int)}
	server := httptest.NewServer(c)
	defer server.Close()

	console := logger.NewTestLogger()
	tel, err := New(context.Background(), Config{
		Endpoint:    server.URL,
		AuthToken:   "secret",
		ServiceName: "hn-test",
		LogLevel:    logger.LevelInfo,
	}, console)
	require.NoError(t, err)
	require.NotNil(t, tel.Logger)

	_, span := tel.TracerProvider.Tracer("test").Start(context.Background(), "work")
	span.End()
	tel.Logger.Info("hello")
	tel.Shutdown()

	assert.Equal(t, 1, c.count("/v1/traces"))
	assert.Equal(t, 1, c.count("/v1/logs"))
	c.mu.Lock()
	assert.Equal(t, "Bearer secret", c.auth)
	c.mu.Unlock()

	entries := console.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "hello", entries[len(entries)-1].String())
}

func TestNewWithoutEndpoint(t *testing.T) {
	console := logger.NewTestLogger()
	tel, err := New(context.Background(), Config{ServiceName: "hn-test"}, console)
	require.NoError(t, err)
	assert.Same(t, console, tel.Logger)
	assert.NotNil(t, tel.TracerProvider)
	assert.NotPanics(t, tel.Shutdown)
}

func TestNewWithInvalidURL(t *testing.T) {
	for _, endpoint := range []string{"://invalid-url", "localhost:4318"} {
		tel, err := New(context.Background(), Config{Endpoint: endpoint}, logger.NewTestLogger())
		assert.Error(t, err)
		assert.Nil(t, tel)
		assert.Contains(t, err.Error(), "error parsing oltpServerURL")
	}
}

func TestNilTelemetryShutdown(t *testing.T) {
	var tel *Telemetry
	assert.NotPanics(t, tel.Shutdown)
}
