// Package observability wires slog, OpenTelemetry tracing and metrics for
// every ecommerce process (API, worker, seeder).
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Instruments is what the service graph needs from the telemetry setup.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Settings are read from the environment by SettingsFromEnv.
type Settings struct {
	Environment  string
	LogLevel     slog.Level
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
	SampleRatio  float64
}

// SettingsFromEnv reads ENVIRONMENT, LOG_LEVEL, OTEL_TRACES_EXPORTER,
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE and OTEL_TRACES_SAMPLER_ARG.
func SettingsFromEnv() (Settings, error) {
	s := Settings{
		Environment:  envOrDefault("ENVIRONMENT", "local"),
		LogLevel:     slog.LevelInfo,
		Exporter:     strings.ToLower(envOrDefault("OTEL_TRACES_EXPORTER", ExporterOTLP)),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
		SampleRatio:  1,
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := s.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return Settings{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
		}
	}
	switch s.Exporter {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return Settings{}, fmt.Errorf("invalid OTEL_TRACES_EXPORTER %q", s.Exporter)
	}
	if raw := strings.TrimSpace(os.Getenv("OTEL_TRACES_SAMPLER_ARG")); raw != "" {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			return Settings{}, fmt.Errorf("invalid OTEL_TRACES_SAMPLER_ARG %q: want a ratio between 0 and 1", raw)
		}
		s.SampleRatio = ratio
	}
	return s, nil
}

// Init installs the global logger, tracer and meter providers for serviceName.
// The returned shutdown flushes pending spans and must run before exit.
func Init(ctx context.Context, serviceName string) (*Instruments, func(context.Context) error, error) {
	settings, err := SettingsFromEnv()
	if err != nil {
		return nil, nil, err
	}
	logger := NewLogger(os.Stdout, settings.LogLevel)
	slog.SetDefault(logger)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.namespace", "ecommerce"),
			attribute.String("deployment.environment", settings.Environment),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.SampleRatio))),
	}
	exporter, err := newSpanExporter(ctx, settings, logger)
	if err != nil {
		return nil, nil, err
	}
	if exporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewManualReader()),
	)
	otel.SetMeterProvider(meterProvider)

	logger.Info("observability initialized",
		slog.String("service", serviceName),
		slog.String("exporter", settings.Exporter),
		slog.Float64("sample_ratio", settings.SampleRatio),
	)

	shutdown := func(ctx context.Context) error {
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}
	return &Instruments{
		Logger:         logger,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, shutdown, nil
}

// NewLogger builds the JSON logger used by every process; records carry the
// active trace and span ids.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: true})
	return slog.New(ContextHandler{Handler: handler})
}

func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter falls back to a no-op meter so decorators work with bare Instruments in tests.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

// newSpanExporter returns nil for ExporterNone. An OTLP exporter that cannot
// be built degrades to stdout.
func newSpanExporter(ctx context.Context, s Settings, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	switch s.Exporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		return stdouttrace.New()
	}
	var opts []otlptracehttp.Option
	if s.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(s.OTLPEndpoint))
	}
	if s.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err == nil {
		return exporter, nil
	}
	logger.Warn("OTLP trace exporter unavailable, writing spans to stdout", slog.String("error", err.Error()))
	return stdouttrace.New()
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
