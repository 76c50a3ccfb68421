package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"millwright/judgment/pkg/cli"
	"millwright/judgment/pkg/config"
	"millwright/judgment/pkg/telemetry/logging"
	"millwright/judgment/pkg/telemetry/metrics"
	"millwright/judgment/pkg/telemetry/tracing"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "judgment",
	Short: "Judgment - rule mining and safe rule evaluation",
	Long: `Judgment learns boolean acceptance rules from labeled feedback.

It provides:
  - A small, safe rule language over flat JSON records
  - Frequency and decision-tree based rule mining
  - Fusion of candidates from several miners, including offline LLM output
  - Scheduled and on-change mining runs

Configuration is read from --config (YAML) and JUDGMENT_* environment
variables; without a file the defaults apply.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
}

// app holds what every command shares: configuration and telemetry.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// newApp loads configuration and builds the telemetry stack. Logs and
// stdout traces go to stderr so command output stays clean.
func newApp(stderr io.Writer) (*app, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}

	switch {
	case verbose:
		cfg.Telemetry.Logging.Level = "debug"
	case logLevel != "":
		cfg.Telemetry.Logging.Level = logLevel
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, stderr))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing,
		tracing.WithServiceVersion(Version),
		tracing.WithWriter(stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:  tracer,
	}, nil
}

// Close flushes traces and writes the metrics textfile.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if err := a.metrics.WriteToTextfile(a.cfg.Telemetry.Metrics.TextfilePath); err != nil {
		errs = append(errs, err)
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush traces: %w", err))
	}
	return errors.Join(errs...)
}

// closeApp closes a, logging instead of failing the command.
func closeApp(a *app) {
	if err := a.Close(context.Background()); err != nil {
		a.logger.Warn("telemetry shutdown incomplete", "error", err)
	}
}
