package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agbru/matbench/internal/calibration"
	"github.com/agbru/matbench/internal/cli"
	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/logging"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/orchestration"
	"github.com/agbru/matbench/internal/parallel"
	"github.com/agbru/matbench/internal/server"
	"github.com/agbru/matbench/internal/ui"
	"github.com/agbru/matbench/pkg/models"
)

// Application is one matbench invocation: a parsed configuration and the
// algorithm registry it runs against.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides the multiplication algorithms.
	Factory multiply.Factory
	// ErrWriter receives errors and diagnostics (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates an Application from command-line arguments.
//
// Thresholds left at their defaults are replaced by the cached calibration
// profile when one is valid for this machine, and by hardware estimates
// otherwise. Thresholds given explicitly are kept.
//
// Parameters:
//   - args: The command-line arguments, program name first (os.Args).
//   - errWriter: The writer for usage and error output.
//
// Returns:
//   - *Application: The application.
//   - error: A parsing or validation error; flag.ErrHelp after -h.
func New(args []string, errWriter io.Writer) (*Application, error) {
	return NewWithFactory(args, errWriter, multiply.GlobalFactory())
}

// NewWithFactory is New with an explicit algorithm registry.
func NewWithFactory(args []string, errWriter io.Writer, factory multiply.Factory) (*Application, error) {
	programName := "matbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	if tuned, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = tuned
	} else {
		cfg = applyAdaptiveThresholds(cfg)
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// applyAdaptiveThresholds fills the thresholds not set explicitly with
// hardware estimates.
func applyAdaptiveThresholds(cfg config.AppConfig) config.AppConfig {
	return cfg.WithTunedThresholds(calibration.EstimateOptimalSequentialThreshold(),
		calibration.EstimateOptimalParallelThreshold())
}

// Run executes the configured mode: version, server, calibration or
// benchmark.
//
// Parameters:
//   - ctx: The parent context; signals and -timeout are layered on it.
//   - out: The writer for standard output.
//
// Returns:
//   - int: The process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		if err := PrintVersion(out, GetBuildInfo(a.Factory), a.Config.JSONOutput); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error printing version: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	ui.InitTheme(a.Config.NoColor)
	logging.ConfigureGlobal(a.ErrWriter, a.Config.Verbose)

	if a.Config.ServerMode {
		return a.runServer(ctx, out)
	}

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	return a.runBenchmark(ctx, out)
}

// runServer serves the HTTP API until SIGINT or SIGTERM.
func (a *Application) runServer(ctx context.Context, out io.Writer) int {
	ctx, stop := WithShutdownSignals(ctx)
	defer stop()

	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(logging.NewLogger(out, "server")))
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the full threshold search and saves the profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stop := WithShutdownSignals(ctx)
	defer stop()

	return calibration.RunCalibrationWithOptions(ctx, out, a.Factory, calibration.CalibrationOptions{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
		Workers:     a.Config.Workers,
	})
}

// runAutoCalibrationIfEnabled returns the configuration updated by a quick
// calibration when -auto-calibrate is set.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if !a.Config.AutoCalibrate {
		return a.Config
	}
	calibrationOut := out
	switch {
	case a.Config.JSONOutput:
		calibrationOut = a.ErrWriter
	case a.Config.Quiet:
		calibrationOut = io.Discard
	}
	if updated, ok := calibration.AutoCalibrateWithProfile(ctx, a.Config, calibrationOut, a.Factory, a.Config.CalibrationProfile); ok {
		return updated
	}
	return a.Config
}

// runBenchmark runs the comparison over every size and reports it as tables
// or as JSON.
func (a *Application) runBenchmark(ctx context.Context, out io.Writer) int {
	ctx, cancel := BenchmarkContext(ctx, a.Config.Timeout)
	defer cancel()

	a.Config.Seed = orchestration.ResolveSeed(a.Config.Seed)
	pool := parallel.NewPool(a.Config.Workers)

	multipliers := cli.GetMultipliersToRun(a.Config, a.Factory)
	if len(multipliers) == 0 {
		fmt.Fprintf(a.ErrWriter, "No algorithm matches %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	interactive := !a.Config.JSONOutput && !a.Config.Quiet
	if interactive {
		cli.PrintExecutionConfig(a.Config, pool.Workers(), out)
		cli.PrintExecutionMode(multipliers, out)
	}

	start := time.Now()
	outcome := orchestration.RunBenchmark(ctx, multipliers, a.Config, pool, out)

	if err := ctx.Err(); err != nil && !a.Config.JSONOutput {
		apperrors.HandleCalculationError(err, time.Since(start), a.ErrWriter, cli.CLIColorProvider{})
	}

	if a.Config.JSONOutput {
		if err := printJSONReport(outcome.Report, out); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error encoding report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	}

	if err := orchestration.WriteOutput(outcome, a.Config, out); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		if outcome.ExitCode == apperrors.ExitSuccess {
			return apperrors.ExitErrorGeneric
		}
	}

	return outcome.ExitCode
}

// printJSONReport writes report as indented JSON.
func printJSONReport(report models.BenchmarkReport, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
