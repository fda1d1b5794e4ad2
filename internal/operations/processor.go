package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"sbaclean/internal/config"
	apperrors "sbaclean/internal/errors"
	"sbaclean/internal/exporter"
	"sbaclean/internal/files"
	"sbaclean/internal/infrastructure"
	"sbaclean/internal/loans"
	"sbaclean/internal/validation"
	"sbaclean/internal/workbook"
	"sbaclean/pkg/contracts/domain"
)

// TracerName is the instrumentation scope of pipeline spans
const TracerName = "sbaclean.operation"

// Options controls a pipeline run
type Options struct {
	HeaderRow       int
	FormattedValues bool
	FailFast        bool
	CheckColumns    bool
}

// DefaultOptions returns the options for the published SBA report layout
func DefaultOptions() Options {
	return Options{HeaderRow: loans.DefaultHeaderRow}
}

// OptionsFromConfig maps the loaded configuration onto pipeline options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HeaderRow:       cfg.Input.HeaderRow,
		FormattedValues: cfg.Input.FormattedValues,
		FailFast:        cfg.Pipeline.FailFast,
		CheckColumns:    cfg.Validation.CheckColumns,
	}
}

// Processor turns every SBA workbook in a directory into home and business extracts.
// Workbooks are handled one at a time and a failure is confined to its own file
// unless FailFast is set.
type Processor struct {
	opts         Options
	discovery    *files.Discovery
	validator    *validation.FileValidator
	openWorkbook func(path string, opts workbook.Options) (workbook.Workbook, error)
	writer       *exporter.CSVWriter
	tracer       trace.Tracer
	metrics      *infrastructure.PipelineMetrics
	logger       *slog.Logger
}

// NewProcessor creates a processor. A nil telemetry disables spans and metrics.
func NewProcessor(opts Options, writer *exporter.CSVWriter, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if writer == nil {
		writer = exporter.NewCSVWriter(exporter.DefaultDelimiter, logger)
	}

	p := &Processor{
		opts:         opts,
		discovery:    files.NewDiscovery(""),
		validator:    validation.NewFileValidator(logger),
		openWorkbook: workbook.Open,
		writer:       writer,
		tracer:       noop.NewTracerProvider().Tracer(TracerName),
		logger:       logger,
	}
	if telemetry != nil {
		if telemetry.Tracer != nil {
			p.tracer = telemetry.Tracer
		}
		p.metrics = telemetry.Metrics
	}
	return p
}

// Run processes every workbook in dir and returns the run summary.
// The error is non-nil when dir cannot be read, when ctx is cancelled between
// files, or when FailFast is set and a workbook fails. The summary is returned
// in every case and covers the files handled so far.
func (p *Processor) Run(ctx context.Context, dir string) (*domain.RunSummary, error) {
	manifest := NewRunManifest(dir)
	ctx = infrastructure.WithRunID(ctx, manifest.RunID())

	ctx, span := p.tracer.Start(ctx, "sbaclean.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", manifest.RunID()),
			attribute.String("run.input_dir", dir),
		),
	)
	defer span.End()

	p.logger.InfoContext(ctx, "Starting extraction run",
		slog.String("input_dir", dir),
		slog.Bool("fail_fast", p.opts.FailFast))

	if err := p.validator.ValidateInputDirectory(dir); err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return manifest.Finish(), err
	}

	inputs, err := p.discovery.FindWorkbooks(dir)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to list input directory",
			slog.String("input_dir", dir),
			slog.String("error", err.Error()))
		infrastructure.RecordSpanError(ctx, err)
		return manifest.Finish(), err
	}
	manifest.SetTotal(len(inputs))
	span.SetAttributes(attribute.Int("run.files", len(inputs)))

	if len(inputs) == 0 {
		p.logger.WarnContext(ctx, "No workbooks found", slog.String("input_dir", dir))
	}

	resolver := loans.NewYearResolver(inputs)
	span.SetAttributes(attribute.StringSlice("run.year_tokens", resolver.Tokens()))
	p.logger.DebugContext(ctx, "Fiscal year tokens in run", slog.Any("tokens", resolver.Tokens()))
	progress := NewProgressTracker("extract", len(inputs))

	for _, file := range inputs {
		if err := ctx.Err(); err != nil {
			completed, total, _, _ := progress.GetProgress()
			p.logger.WarnContext(ctx, "Run cancelled",
				slog.Int("completed", completed),
				slog.Int("total", total))
			infrastructure.RecordSpanError(ctx, err)
			return manifest.Finish(), err
		}

		result, err := p.processFile(ctx, file, resolver)
		manifest.RecordFile(result)

		progress.Increment(file.Name)
		completed, total, percent, _ := progress.GetProgress()
		attrs := []any{
			slog.Int("percent", percent),
			slog.Int("completed", completed),
			slog.Int("total", total),
			slog.Duration("elapsed", progress.GetElapsedTime()),
		}
		if !progress.IsComplete() {
			attrs = append(attrs, slog.String("eta", progress.GetETA()))
		}
		p.logger.InfoContext(ctx, "Progress", attrs...)

		if err != nil && p.opts.FailFast {
			infrastructure.RecordSpanError(ctx, err)
			return manifest.Finish(), fmt.Errorf("stopping after %s: %w", file.Name, err)
		}
	}

	summary := manifest.Finish()
	p.logger.InfoContext(ctx, "Extraction run finished",
		slog.Int("total_files", summary.TotalFiles),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("duration", summary.EndTime.Sub(summary.StartTime)))
	if summary.Failed > 0 {
		p.logger.WarnContext(ctx, "Some workbooks were not extracted",
			slog.Any("files", summary.FailedFiles()))
	}

	return summary, nil
}

// ProcessFile extracts one workbook. Failures are reported in the result, never returned.
func (p *Processor) ProcessFile(ctx context.Context, file domain.InputFile, resolver *loans.YearResolver) domain.FileResult {
	result, _ := p.processFile(ctx, file, resolver)
	return result
}

func (p *Processor) processFile(ctx context.Context, file domain.InputFile, resolver *loans.YearResolver) (domain.FileResult, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "sbaclean.file",
		trace.WithAttributes(
			attribute.String("file.name", file.Name),
			attribute.String("file.extension", file.Extension),
		),
	)
	defer span.End()

	result := domain.FileResult{File: file}
	err := p.extract(ctx, file, resolver, &result)
	result.Duration = time.Since(start)

	if err != nil {
		result.Status = domain.FileStatusFailed
		result.ErrorType = string(apperrors.TypeOf(err))
		result.Error = err.Error()

		infrastructure.RecordSpanError(ctx, err)
		p.metrics.RecordError(ctx, result.ErrorType)
		p.logger.ErrorContext(ctx, "Workbook failed",
			slog.String("file", file.Name),
			slog.String("error_type", result.ErrorType),
			slog.String("error", result.Error))
	} else {
		result.Status = domain.FileStatusCompleted
		span.SetAttributes(attribute.Int("file.year", result.Year))
		p.logger.InfoContext(ctx, "Workbook extracted",
			slog.String("file", file.Name),
			slog.Int("year", result.Year),
			slog.String("home_sheet", result.HomeSheet),
			slog.String("business_sheet", result.BusinessSheet),
			slog.Duration("duration", result.Duration))
	}

	p.metrics.RecordFile(ctx, result.Status, result.Duration)
	return result, err
}

// extract runs the per-file steps, filling result as they succeed
func (p *Processor) extract(ctx context.Context, file domain.InputFile, resolver *loans.YearResolver, result *domain.FileResult) error {
	token, err := loans.YearToken(file.Name)
	if err != nil {
		return err
	}

	if err := p.validator.ValidateWorkbook(file.Path); err != nil {
		return err
	}

	wb, err := p.openWorkbook(file.Path, workbook.Options{FormattedValues: p.opts.FormattedValues})
	if err != nil {
		return err
	}
	defer func() {
		if err := wb.Close(); err != nil {
			p.logger.WarnContext(ctx, "Failed to close workbook",
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
		}
	}()

	pair, err := loans.ClassifySheets(wb.SheetNames())
	if err != nil {
		return err
	}
	result.HomeSheet = pair.Home
	result.BusinessSheet = pair.Business

	year, err := resolver.Resolve(token, pair.Home)
	if err != nil {
		return err
	}
	result.Year = year

	dir := filepath.Dir(file.Path)
	for _, role := range domain.LoanTypes {
		sheet := pair.Name(role)

		raw, err := wb.Rows(sheet)
		if err != nil {
			return apperrors.NewWorkbookReadError(file.Path, err).WithContext("sheet", sheet)
		}

		table, err := loans.Normalize(raw, sheet, role, year, loans.NormalizeOptions{HeaderRow: p.opts.HeaderRow})
		if err != nil {
			return err
		}

		if p.opts.CheckColumns {
			p.checkColumns(ctx, file, table, result)
		}

		record, err := p.writer.WriteTable(exporter.OutputPath(dir, file.Name, role), table)
		if err != nil {
			return err
		}
		result.Outputs = append(result.Outputs, record)
		p.metrics.RecordRows(ctx, string(role), record.Rows)
	}

	return nil
}

// checkColumns logs allow-list columns missing from the table header. It never fails the file.
func (p *Processor) checkColumns(ctx context.Context, file domain.InputFile, table *domain.LoanTable, result *domain.FileResult) {
	missing := validation.MissingColumns(table.Header())
	if len(missing) == 0 {
		return
	}

	for _, col := range missing {
		result.MissingColumns = append(result.MissingColumns, fmt.Sprintf("%s:%s", table.LoanType, col))
	}
	p.logger.WarnContext(ctx, "Header is missing expected columns",
		slog.String("file", file.Name),
		slog.String("sheet", table.Sheet),
		slog.Int("missing", len(missing)),
		slog.Any("columns", missing))
}
