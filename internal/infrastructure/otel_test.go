package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbaclean/internal/config"
)

func TestInitializeTelemetry_MetricsTextfile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "metrics", "sbaclean.prom")
	logger := NewLogger(&bytes.Buffer{}, "info")

	tel, err := InitializeTelemetry(config.TelemetryConfig{MetricsFile: metricsFile}, logger)
	require.NoError(t, err)
	require.NotNil(t, tel.Metrics)
	require.NotNil(t, tel.Registry())

	ctx := context.Background()
	tel.Metrics.RecordFile(ctx, "completed", 250*time.Millisecond)
	tel.Metrics.RecordFile(ctx, "failed", 10*time.Millisecond)
	tel.Metrics.RecordRows(ctx, "Home", 3)
	tel.Metrics.RecordRows(ctx, "Business", 2)
	tel.Metrics.RecordError(ctx, "YEAR_MISMATCH")

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "sbaclean_files_processed_total")
	assert.Contains(t, text, `status="completed"`)
	assert.Contains(t, text, `status="failed"`)
	assert.Contains(t, text, "sbaclean_rows_written_total")
	assert.Contains(t, text, `loan_type="Home"`)
	assert.Contains(t, text, "sbaclean_errors_total")
	assert.Contains(t, text, `error_type="YEAR_MISMATCH"`)
	assert.Contains(t, text, "sbaclean_file_duration")
}

func TestInitializeTelemetry_TracingToFile(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "trace.json")
	logger := NewLogger(&bytes.Buffer{}, "info")

	tel, err := InitializeTelemetry(config.TelemetryConfig{Tracing: true, TraceFile: traceFile}, logger)
	require.NoError(t, err)

	ctx, span := tel.Tracer.Start(context.Background(), "process_file")
	RecordSpanError(ctx, errors.New("sheet missing"))
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))

	content, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "process_file")
	assert.Contains(t, string(content), "sheet missing")
}

func TestInitializeTelemetry_Disabled(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{}, NewLogger(&bytes.Buffer{}, "info"))
	require.NoError(t, err)

	ctx, span := tel.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	RecordSpanError(ctx, errors.New("ignored"))
	span.End()

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordFile(ctx, "completed", time.Second)
		m.RecordRows(ctx, "Home", 1)
		m.RecordError(ctx, "WRITE")
	})
}
