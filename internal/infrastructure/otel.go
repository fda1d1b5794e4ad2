package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"sbaclean/internal/config"
	"sbaclean/pkg/contracts"
)

const (
	ServiceName = "sbaclean"
	MeterName   = "sbaclean"
)

// Telemetry holds the tracer and pipeline metrics for one process.
// Metrics are always collected in memory; they are written to disk only
// when a metrics file is configured.
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *PipelineMetrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *promclient.Registry
	metricsFile    string
	traceOut       io.Closer
	logger         *slog.Logger
}

// InitializeTelemetry sets up tracing (when enabled) and the metrics pipeline
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
	)

	t := &Telemetry{
		Tracer:      noop.NewTracerProvider().Tracer(ServiceName),
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if cfg.Tracing {
		if err := t.initializeTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Info("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// initializeTracing exports spans as JSON to the trace file, or stdout when none is set
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	var out io.Writer = os.Stdout
	if cfg.TraceFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		file, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		t.traceOut = file
		out = file
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	t.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	return nil
}

// initializeMetrics bridges OTel instruments into a private Prometheus registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.registry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(t.registry),
		prometheus.WithoutScopeInfo(),
		prometheus.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	metrics, err := NewPipelineMetrics(t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version)))
	if err != nil {
		return err
	}
	t.Metrics = metrics
	return nil
}

// Registry exposes the Prometheus registry backing the pipeline metrics
func (t *Telemetry) Registry() *promclient.Registry {
	return t.registry
}

// WriteMetrics writes the current metrics in Prometheus text format to path,
// suitable for the node_exporter textfile collector.
func (t *Telemetry) WriteMetrics(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return promclient.WriteToTextfile(path, t.registry)
}

// Shutdown flushes spans, writes the metrics file if configured and releases exporters
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" {
		if err := t.WriteMetrics(t.metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace file: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics holds the instruments recorded by the pipeline
type PipelineMetrics struct {
	FilesProcessed metric.Int64Counter
	FileDuration   metric.Float64Histogram
	RowsWritten    metric.Int64Counter
	Errors         metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	filesProcessed, err := meter.Int64Counter(
		"sbaclean_files_processed",
		metric.WithDescription("Workbooks processed, by status"),
	)
	if err != nil {
		return nil, err
	}

	fileDuration, err := meter.Float64Histogram(
		"sbaclean_file_duration",
		metric.WithDescription("Time spent processing one workbook"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"sbaclean_rows_written",
		metric.WithDescription("Data rows written to extracts, by loan type"),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter(
		"sbaclean_errors",
		metric.WithDescription("Workbook failures, by error type"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		FilesProcessed: filesProcessed,
		FileDuration:   fileDuration,
		RowsWritten:    rowsWritten,
		Errors:         errorsTotal,
	}, nil
}

// RecordFile records the outcome and duration of one workbook
func (m *PipelineMetrics) RecordFile(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.FilesProcessed.Add(ctx, 1, attrs)
	m.FileDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRows records rows written for one extract
func (m *PipelineMetrics) RecordRows(ctx context.Context, loanType string, rows int) {
	if m == nil {
		return
	}
	m.RowsWritten.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("loan_type", loanType)))
}

// RecordError counts a workbook failure by error type
func (m *PipelineMetrics) RecordError(ctx context.Context, errType string) {
	if m == nil {
		return
	}
	m.Errors.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", errType)))
}

// RecordSpanError records an error on the current span
func RecordSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
