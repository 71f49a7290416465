package calibration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
	"github.com/agbru/matbench/internal/ui"
)

// emptyFactory knows no algorithm.
type emptyFactory struct{}

func (emptyFactory) Get(name string) (multiply.Multiplier, error) {
	return nil, multiply.ErrUnknownAlgorithm
}
func (emptyFactory) List() []string  { return nil }
func (emptyFactory) Has(string) bool { return false }

func testConfig() config.AppConfig {
	return config.AppConfig{
		SequentialThreshold: multiply.DefaultSequentialThreshold,
		ParallelThreshold:   multiply.DefaultParallelThreshold,
		Workers:             2,
	}
}

func TestRunCalibration_MissingAlgorithms(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	var out bytes.Buffer
	code := RunCalibrationWithOptions(context.Background(), &out, emptyFactory{}, CalibrationOptions{})
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(out.String(), "Critical error") {
		t.Errorf("missing error message:\n%s", out.String())
	}
}

func TestRunCalibration_UsesCachedProfile(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	code := RunCalibrationWithOptions(context.Background(), &out, multiply.GlobalFactory(),
		CalibrationOptions{ProfilePath: path, LoadProfile: true})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "-seq-threshold 32 -par-threshold 128") {
		t.Errorf("recommendation missing:\n%s", out.String())
	}
}

func TestRunCalibration_Canceled(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	code := RunCalibrationWithOptions(ctx, &out, multiply.GlobalFactory(),
		CalibrationOptions{ProfilePath: filepath.Join(t.TempDir(), "p.json"), SaveProfile: true})
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestAutoCalibrate_CachedProfile(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	updated, ok := AutoCalibrateWithProfile(context.Background(), testConfig(), &out, multiply.GlobalFactory(), path)
	if !ok {
		t.Fatal("expected the cached profile to be used")
	}
	if updated.SequentialThreshold != 32 || updated.ParallelThreshold != 128 {
		t.Errorf("thresholds = %d/%d", updated.SequentialThreshold, updated.ParallelThreshold)
	}
	if !strings.Contains(out.String(), "Using cached calibration") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestAutoCalibrate_MissingAlgorithms(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	updated, ok := AutoCalibrate(context.Background(), cfg, &bytes.Buffer{}, emptyFactory{})
	if ok || updated.SequentialThreshold != cfg.SequentialThreshold {
		t.Errorf("expected an unchanged config, got ok=%v %+v", ok, updated)
	}
}

func TestLoadCachedCalibration(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testConfig()

	if _, ok := LoadCachedCalibration(cfg, filepath.Join(dir, "none.json")); ok {
		t.Error("expected no cached calibration")
	}

	path := filepath.Join(dir, "profile.json")
	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatal(err)
	}
	updated, ok := LoadCachedCalibration(cfg, path)
	if !ok || updated.SequentialThreshold != 32 || updated.ParallelThreshold != 128 {
		t.Errorf("LoadCachedCalibration = %+v, %v", updated, ok)
	}
	if updated.Workers != cfg.Workers {
		t.Error("unrelated settings must be preserved")
	}

	cfg.ParallelThreshold, cfg.ParallelThresholdSet = 8, true
	updated, ok = LoadCachedCalibration(cfg, path)
	if !ok || updated.SequentialThreshold != 32 || updated.ParallelThreshold != 8 {
		t.Errorf("explicit parallel threshold must be kept: %+v, %v", updated, ok)
	}
}

func TestMeasuredThresholds(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	if _, _, ok := measuredThresholds(cfg, 16, maxDuration, 32, maxDuration); ok {
		t.Error("no measurement should report false")
	}

	seq, par, ok := measuredThresholds(cfg, 16, time.Millisecond, 32, maxDuration)
	if !ok || seq != 16 || par != cfg.ParallelThreshold {
		t.Errorf("sequential only: %d/%d %v", seq, par, ok)
	}

	seq, par, ok = measuredThresholds(cfg, 16, time.Millisecond, 32, time.Millisecond)
	if !ok || seq != 16 || par != 32 {
		t.Errorf("both: %d/%d %v", seq, par, ok)
	}
}

func TestAutoCalibrate_ExplicitThresholds(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	t.Run("BothSet", func(t *testing.T) {
		cfg := testConfig()
		cfg.SequentialThreshold, cfg.SequentialThresholdSet = 2, true
		cfg.ParallelThreshold, cfg.ParallelThresholdSet = 4, true

		var out bytes.Buffer
		updated, ok := AutoCalibrateWithProfile(context.Background(), cfg, &out, multiply.GlobalFactory(), path)
		if ok {
			t.Error("nothing should be tuned")
		}
		if updated.SequentialThreshold != 2 || updated.ParallelThreshold != 4 {
			t.Errorf("explicit thresholds overridden: %d/%d", updated.SequentialThreshold, updated.ParallelThreshold)
		}
		if !strings.Contains(out.String(), "auto-calibration skipped") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("DefaultValueSet", func(t *testing.T) {
		cfg := testConfig()
		cfg.SequentialThresholdSet = true

		updated, ok := AutoCalibrateWithProfile(context.Background(), cfg, &bytes.Buffer{}, multiply.GlobalFactory(), path)
		if !ok {
			t.Fatal("expected the cached profile to be used")
		}
		if updated.SequentialThreshold != multiply.DefaultSequentialThreshold {
			t.Errorf("explicit -seq-threshold %d overridden by %d",
				multiply.DefaultSequentialThreshold, updated.SequentialThreshold)
		}
		if updated.ParallelThreshold != 128 {
			t.Errorf("parallel threshold = %d, want the profile's 128", updated.ParallelThreshold)
		}
	})
}

func TestCalibrationRunnerSearch(t *testing.T) {
	t.Parallel()
	m, err := multiply.GlobalFactory().Get(multiply.StrassenSeq)
	if err != nil {
		t.Fatal(err)
	}
	runner := newCalibrationRunner(context.Background(), 24, parallel.NewPool(1))

	results, best, bestDur := runner.findBestSequentialThreshold(m, []int{6, 12}, 64)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if best != 6 && best != 12 {
		t.Errorf("best = %d, want one of the candidates", best)
	}
	if bestDur == maxDuration {
		t.Error("expected a measured duration")
	}

	// Halving 24 reaches the odd size 3 above a threshold of 2, so the
	// trial fails and the fallback is kept.
	results, best, bestDur = runner.findBestSequentialThreshold(m, []int{2}, 64)
	if best != 64 || bestDur != maxDuration || results[0].Err == nil {
		t.Errorf("failing search = %v, %d, %v", results, best, bestDur)
	}
}

func TestCalibrationRunner_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, _ := multiply.GlobalFactory().Get(multiply.StrassenParallel)
	runner := newCalibrationRunner(ctx, 16, nil)

	results, _, _ := runner.findBestParallelThreshold(m, []int{4, 8}, 4, 128)
	if len(results) != 1 || !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected the search to stop at the first canceled trial, got %v", results)
	}
}

func TestPrintCalibrationResults(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	var out bytes.Buffer
	printCalibrationResults(&out, "Sequential", []calibrationResult{
		{Threshold: 32, Duration: 3 * time.Millisecond},
		{Threshold: 64, Duration: 2 * time.Millisecond},
		{Threshold: 128, Err: errors.New("boom")},
	}, 64)
	s := out.String()
	for _, want := range []string{"--- Sequential ---", "3ms", "(Optimal)", "N/A"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}
