package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/agentuity/go-hn/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"
)

type ShutdownFunc func()

// Config controls where telemetry is exported.
type Config struct {
	// Endpoint is the base URL of an OTLP/HTTP collector, for example
	// http://localhost:4318. Traces go to /v1/traces and logs to /v1/logs.
	Endpoint    string
	AuthToken   string
	ServiceName string
	LogLevel    logger.LogLevel
}

// Telemetry holds the providers created by New.
type Telemetry struct {
	Logger         logger.Logger
	TracerProvider trace.TracerProvider
	shutdown       ShutdownFunc
}

// Shutdown flushes and stops the exporters.
func (t *Telemetry) Shutdown() {
	if t != nil && t.shutdown != nil {
		t.shutdown()
	}
}

// New wires an OTLP/HTTP trace and log pipeline and installs the tracer
// provider and propagator globally. The returned logger writes to both console
// and the collector. An empty endpoint returns console only with a no-op
// tracer provider.
func New(ctx context.Context, cfg Config, console logger.Logger) (*Telemetry, error) {
	if console == nil {
		console = logger.NewConsoleLogger(cfg.LogLevel)
	}
	if cfg.Endpoint == "" {
		return &Telemetry{Logger: console, TracerProvider: otel.GetTracerProvider(), shutdown: func() {}}, nil
	}

	oltpURL, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("error parsing oltpServerURL: %w", err)
	}
	if oltpURL.Scheme == "" || oltpURL.Host == "" {
		return nil, fmt.Errorf("error parsing oltpServerURL: %q is not an absolute url", cfg.Endpoint)
	}
	insecure := oltpURL.Scheme == "http"
	oltpURL.Path = "/v1/traces"
	traceURL := oltpURL.String()
	oltpURL.Path = "/v1/logs"
	logURL := oltpURL.String()

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithHost(),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
		console.Warn("telemetry resource: %s", err)
	} else if err != nil {
		return nil, fmt.Errorf("error creating resource: %w", err)
	}

	headers := make(map[string]string)
	if cfg.AuthToken != "" {
		headers["Authorization"] = "Bearer " + cfg.AuthToken
	}

	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(traceURL),
		otlptracehttp.WithHeaders(headers),
		otlptracehttp.WithTimeout(time.Second * 10),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating trace exporter: %w", err)
	}

	logOpts := []otlploghttp.Option{
		otlploghttp.WithEndpointURL(logURL),
		otlploghttp.WithHeaders(headers),
		otlploghttp.WithTimeout(time.Second * 10),
		otlploghttp.WithCompression(otlploghttp.GzipCompression),
	}
	if insecure {
		logOpts = append(logOpts, otlploghttp.WithInsecure())
	}
	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating log exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	logProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otelLogger := logger.NewOtelLogger(logProvider.Logger(cfg.ServiceName), cfg.LogLevel)

	return &Telemetry{
		Logger:         logger.NewMultiLogger(console, otelLogger),
		TracerProvider: tracerProvider,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
			defer cancel()
			if err := tracerProvider.Shutdown(ctx); err != nil {
				console.Debug("error shutting down tracer provider: %s", err)
			}
			if err := logProvider.Shutdown(ctx); err != nil {
				console.Debug("error shutting down log provider: %s", err)
			}
		},
	}, nil
}
