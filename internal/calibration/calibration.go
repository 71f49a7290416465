package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/matbench/internal/cli"
	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
	"github.com/agbru/matbench/internal/ui"
)

const (
	// CalibrationN is the dimension multiplied by a full calibration.
	CalibrationN = 512
	// QuickCalibrationN is the dimension used by the auto-calibration
	// fallback search.
	QuickCalibrationN = 256
)

// CalibrationOptions configures RunCalibrationWithOptions.
type CalibrationOptions struct {
	// ProfilePath overrides the default profile location.
	ProfilePath string
	// SaveProfile persists the thresholds found.
	SaveProfile bool
	// LoadProfile reuses a valid existing profile instead of measuring.
	LoadProfile bool
	// Workers sizes the pool of the parallel trials; 0 selects GOMAXPROCS.
	Workers int
}

type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// RunCalibration measures the sequential threshold of strassen_seq and
// then the parallel threshold of strassen_parallel on CalibrationN×
// CalibrationN operands, prints both tables and saves the profile.
//
// Parameters:
//   - ctx: Cancels the calibration between trials.
//   - out: Destination of progress and results.
//   - factory: Must provide strassen_seq and strassen_parallel.
//
// Returns:
//   - int: The exit code.
func RunCalibration(ctx context.Context, out io.Writer, factory multiply.Factory) int {
	return RunCalibrationWithOptions(ctx, out, factory, CalibrationOptions{SaveProfile: true})
}

// RunCalibrationWithOptions is RunCalibration with explicit options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, factory multiply.Factory, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Recursion Thresholds ---\n")

	if opts.LoadProfile {
		if profile, loaded := LoadOrCreateProfile(opts.ProfilePath); loaded {
			fmt.Fprintf(out, "%sLoaded existing calibration profile from %s%s\n",
				ui.ColorGreen(), resolveProfilePath(opts.ProfilePath), ui.ColorReset())
			fmt.Fprintf(out, "Profile: %s\n", profile.String())
			printRecommendation(out, profile.OptimalSequentialThreshold, profile.OptimalParallelThreshold)
			return apperrors.ExitSuccess
		}
	}

	seqMul, errSeq := factory.Get(multiply.StrassenSeq)
	parMul, errPar := factory.Get(multiply.StrassenParallel)
	if errSeq != nil || errPar != nil {
		fmt.Fprintf(out, "%sCritical error: calibration requires the '%s' and '%s' algorithms.%s\n",
			ui.ColorRed(), multiply.StrassenSeq, multiply.StrassenParallel, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	fmt.Fprintf(out, "%sUsing adaptive thresholds for %d CPU cores, n=%d%s\n",
		ui.ColorCyan(), runtime.NumCPU(), CalibrationN, ui.ColorReset())

	candidates := GenerateFullThresholdSet()
	candidates.SortThresholds()
	calibrationStart := time.Now()

	runner := newCalibrationRunner(ctx, CalibrationN, parallel.NewPool(opts.Workers))
	var wg sync.WaitGroup
	progressChan := make(chan multiply.ProgressUpdate, 5)
	runner.progressChan = progressChan
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, out)

	seqResults, bestSeq, bestSeqDur := runner.findBestSequentialThreshold(seqMul, candidates.Sequential, multiply.DefaultSequentialThreshold)
	var parResults []calibrationResult
	bestPar, bestParDur := multiply.DefaultParallelThreshold, maxDuration
	if ctx.Err() == nil {
		parResults, bestPar, bestParDur = runner.findBestParallelThreshold(parMul, candidates.Parallel, bestSeq, multiply.DefaultParallelThreshold)
	}
	close(progressChan)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
		return apperrors.HandleCalculationError(err, time.Since(calibrationStart), out, cli.CLIColorProvider{})
	}
	if bestSeqDur == maxDuration && bestParDur == maxDuration {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	calibrationDuration := time.Since(calibrationStart)
	printCalibrationResults(out, "Sequential threshold ("+multiply.StrassenSeq+")", seqResults, bestSeq)
	printCalibrationResults(out, "Parallel threshold ("+multiply.StrassenParallel+")", parResults, bestPar)
	printRecommendation(out, bestSeq, bestPar)

	if opts.SaveProfile {
		profile := NewProfile()
		profile.OptimalSequentialThreshold, profile.OptimalParallelThreshold = ValidateThresholds(bestSeq, bestPar)
		profile.CalibrationN = CalibrationN
		profile.CalibrationTime = calibrationDuration.Round(time.Millisecond).String()

		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
				ui.ColorGreen(), resolveProfilePath(opts.ProfilePath), ui.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

func printRecommendation(out io.Writer, sequential, parallel int) {
	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s-seq-threshold %d -par-threshold %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), sequential, parallel, ui.ColorReset())
}

// AutoCalibrate tunes cfg's thresholds at startup. It reuses a valid cached
// profile when there is one, otherwise runs the micro-benchmarks, and falls
// back to a short threshold search when their confidence is low. Results
// are saved to cfg.CalibrationProfile. Thresholds set explicitly in cfg are
// kept.
//
// Returns:
//   - config.AppConfig: cfg with the calibrated thresholds.
//   - bool: False when nothing was tuned; cfg is then unchanged.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, factory multiply.Factory) (config.AppConfig, bool) {
	return AutoCalibrateWithProfile(ctx, cfg, out, factory, cfg.CalibrationProfile)
}

// AutoCalibrateWithProfile is AutoCalibrate with an explicit profile path.
func AutoCalibrateWithProfile(ctx context.Context, cfg config.AppConfig, out io.Writer, factory multiply.Factory, profilePath string) (config.AppConfig, bool) {
	if cfg.SequentialThresholdSet && cfg.ParallelThresholdSet {
		fmt.Fprintf(out, "%sThresholds set explicitly, auto-calibration skipped%s\n", ui.ColorYellow(), ui.ColorReset())
		return cfg, false
	}

	seqMul, errSeq := factory.Get(multiply.StrassenSeq)
	parMul, errPar := factory.Get(multiply.StrassenParallel)
	if errSeq != nil || errPar != nil {
		return cfg, false
	}

	if updated, ok := LoadCachedCalibration(cfg, profilePath); ok {
		printCalibrationOutput("Using cached calibration", updated, out)
		return updated, true
	}

	pool := parallel.NewPool(cfg.Workers)
	mb := NewMicroBenchmark()
	mb.Pool = pool
	micro, err := mb.RunQuick(ctx)
	if err == nil && micro.Confidence >= 0.5 {
		updated := cfg.WithTunedThresholds(micro.SequentialThreshold, micro.ParallelThreshold)
		printCalibrationOutput(fmt.Sprintf("Quick calibration (%v, confidence %.0f%%)",
			micro.Duration.Round(time.Millisecond), micro.Confidence*100), updated, out)
		saveCalibrationProfile(micro.SequentialThreshold, micro.ParallelThreshold, profilePath, out)
		return updated, true
	}

	runner := newCalibrationRunner(ctx, QuickCalibrationN, pool)
	candidates := GenerateQuickThresholdSet()
	_, bestSeq, bestSeqDur := runner.findBestSequentialThreshold(seqMul, candidates.Sequential, cfg.SequentialThreshold)
	_, bestPar, bestParDur := runner.findBestParallelThreshold(parMul, candidates.Parallel, bestSeq, cfg.ParallelThreshold)

	seq, par, ok := measuredThresholds(cfg, bestSeq, bestSeqDur, bestPar, bestParDur)
	if !ok {
		return cfg, false
	}
	saveCalibrationProfile(seq, par, profilePath, out)
	updated := cfg.WithTunedThresholds(seq, par)
	printCalibrationOutput("Auto-calibration", updated, out)
	return updated, true
}

// LoadCachedCalibration applies the profile at profilePath to the
// thresholds of cfg that were not set explicitly, when the profile is
// valid for this machine.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (config.AppConfig, bool) {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded {
		return cfg, false
	}
	return cfg.WithTunedThresholds(profile.OptimalSequentialThreshold, profile.OptimalParallelThreshold), true
}

// measuredThresholds picks each threshold whose search produced a
// measurement, keeping cfg's value for the other. It reports false when
// neither did.
func measuredThresholds(cfg config.AppConfig, bestSeq int, bestSeqDur time.Duration, bestPar int, bestParDur time.Duration) (int, int, bool) {
	if bestSeqDur == maxDuration && bestParDur == maxDuration {
		return 0, 0, false
	}
	seq, par := cfg.SequentialThreshold, cfg.ParallelThreshold
	if bestSeqDur != maxDuration {
		seq = bestSeq
	}
	if bestParDur != maxDuration {
		par = bestPar
	}
	return seq, par, true
}

func saveCalibrationProfile(sequential, parallel int, profilePath string, out io.Writer) {
	profile := NewProfile()
	profile.OptimalSequentialThreshold, profile.OptimalParallelThreshold = ValidateThresholds(sequential, parallel)
	profile.CalibrationN = QuickCalibrationN
	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: could not save calibration profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
	}
}
