package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"batcli/internal/config"
)

const (
	ServiceName = "batcli"
	MeterName   = "batcli"
	TracerName  = "batcli"
)

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel initializes tracing and metrics according to cfg. Spans are
// written to traceOut, stderr when nil. Disabled signals fall back to no-op
// implementations; Tracer and Meter are never nil.
func InitializeOTel(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if traceOut == nil {
		traceOut = os.Stderr
	}

	ctx := context.Background()
	providers := &OTelProviders{
		Tracer: otel.Tracer(TracerName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	if err := initializeTracing(ctx, cfg, traceOut, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("tracing", cfg.Tracing),
		slog.String("metrics", cfg.Metrics))

	return providers, nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg config.TelemetryConfig, out io.Writer, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.Tracing {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(TracerName, trace.WithInstrumentationVersion(config.AppVersion))
		otel.SetTracerProvider(tp)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.Tracing)
	}

	providers.Logger.DebugContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.Tracing),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return nil
}

// initializeMetrics sets up OpenTelemetry metrics. The Prometheus exporter
// registers on a private registry, not the global default.
func initializeMetrics(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.Metrics {
	case "prometheus":
		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.Metrics)
	}

	providers.Logger.DebugContext(ctx, "Metrics initialized", slog.String("exporter", cfg.Metrics))
	return nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// PipelineMetrics holds the analysis pipeline instruments
type PipelineMetrics struct {
	RowsLoaded    metric.Int64Counter
	RowsDropped   metric.Int64Counter
	AnalysisRuns  metric.Int64Counter
	StageDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"batcli_rows_loaded",
		metric.WithDescription("Rows read from the input datasets"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"batcli_rows_dropped",
		metric.WithDescription("Landing rows removed during cleaning because of unparseable dates"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter(
		"batcli_analysis_runs",
		metric.WithDescription("Completed analysis runs by status"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"batcli_stage_duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsLoaded:    rowsLoaded,
		RowsDropped:   rowsDropped,
		AnalysisRuns:  runs,
		StageDuration: stageDuration,
	}, nil
}

// RecordStage records one stage execution
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordRun records the outcome of a full analysis run
func (m *PipelineMetrics) RecordRun(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.AnalysisRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordRowsLoaded records rows read for one dataset
func (m *PipelineMetrics) RecordRowsLoaded(ctx context.Context, dataset string, rows int) {
	if m == nil {
		return
	}
	m.RowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("dataset", dataset)))
}

// RecordRowsDropped records rows removed by cleaning
func (m *PipelineMetrics) RecordRowsDropped(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.RowsDropped.Add(ctx, int64(rows))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
