// Package main provides the CLI entry point for sbaclean.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sbaclean/internal/config"
	"sbaclean/internal/exporter"
	"sbaclean/internal/infrastructure"
	"sbaclean/internal/operations"
	"sbaclean/pkg/contracts"
)

// errFilesFailed signals a completed run in which some workbooks were not extracted
var errFilesFailed = errors.New("some workbooks failed")

type options struct {
	configFile   string
	summaryFile  string
	logLevel     string
	failFast     bool
	checkColumns bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sbaclean [input-dir]",
		Short: "Normalize SBA disaster-loan workbooks into delimited extracts",
		Long: `sbaclean reads every .xlsx/.xls workbook in the input directory, finds its
fiscal-year home and business loan sheets, and writes one extract per sheet
next to the workbook as <name>_Hclean.csv and <name>_Bclean.csv.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file (default: sbaclean.yaml or configs/sbaclean.yaml)")
	cmd.Flags().StringVar(&opts.summaryFile, "summary", "", "Write the run summary as JSON to this path")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first workbook that fails")
	cmd.Flags().BoolVar(&opts.checkColumns, "check-columns", false, "Report expected SBA columns missing from each header")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg, opts, args)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Error("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("sbaclean starting",
		slog.String("version", contracts.Version),
		slog.String("input_dir", cfg.Input.Dir),
		slog.Int("header_row", cfg.Input.HeaderRow),
		slog.String("delimiter", cfg.Output.Delimiter))

	writer := exporter.NewCSVWriter(cfg.Output.DelimiterRune(), logger)
	processor := operations.NewProcessor(operations.OptionsFromConfig(cfg), writer, telemetry, logger)

	summary, runErr := processor.Run(cmd.Context(), cfg.Input.Dir)

	if cfg.Pipeline.SummaryFile != "" && summary != nil {
		if err := operations.SaveSummary(cfg.Pipeline.SummaryFile, summary); err != nil {
			logger.Error("Failed to write run summary",
				slog.String("path", cfg.Pipeline.SummaryFile),
				slog.String("error", err.Error()))
		} else {
			logger.Info("Run summary written", slog.String("path", cfg.Pipeline.SummaryFile))
		}
	}

	if runErr != nil {
		return runErr
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d workbooks failed: %w", summary.Failed, summary.TotalFiles, errFilesFailed)
	}
	return nil
}

// applyOverrides lets the positional directory and explicitly set flags win over file and env values
func applyOverrides(cmd *cobra.Command, cfg *config.Config, opts *options, args []string) {
	if len(args) > 0 {
		cfg.Input.Dir = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("summary") {
		cfg.Pipeline.SummaryFile = opts.summaryFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("fail-fast") {
		cfg.Pipeline.FailFast = opts.failFast
	}
	if flags.Changed("check-columns") {
		cfg.Validation.CheckColumns = opts.checkColumns
	}
}
