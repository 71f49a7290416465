package orchestration

import (
	"context"
	"io"
	"time"

	"github.com/agbru/matbench/internal/cli"
	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
	"github.com/agbru/matbench/pkg/models"
)

// BenchmarkOutcome is the result of a whole benchmark invocation.
type BenchmarkOutcome struct {
	// Report holds one record per (size, algorithm) run.
	Report models.BenchmarkReport
	// LastReference is the reference product of the last size that had one.
	LastReference *matrix.Matrix
	// ExitCode is the first non-success code met, ExitSuccess otherwise.
	ExitCode int
}

// RunBenchmark runs every multiplier on every size of cfg.Sizes. With
// cfg.JSONOutput or cfg.Quiet, nothing is printed and only the report is
// filled. A done ctx stops the benchmark after the current size.
//
// Parameters:
//   - ctx: Bounds the whole benchmark.
//   - multipliers: The algorithms to compare.
//   - cfg: The benchmark configuration; cfg.Seed must already be resolved.
//   - pool: The worker budget shared by the parallel algorithms.
//   - out: Destination of tables and progress.
//
// Returns:
//   - BenchmarkOutcome: The report, the last reference product and the
//     exit code.
func RunBenchmark(ctx context.Context, multipliers []multiply.Multiplier, cfg config.AppConfig, pool *parallel.Pool, out io.Writer) BenchmarkOutcome {
	outcome := BenchmarkOutcome{
		Report: models.BenchmarkReport{
			Timestamp:           time.Now().UTC().Format(time.RFC3339),
			Seed:                cfg.Seed,
			Workers:             pool.Workers(),
			SequentialThreshold: cfg.SequentialThreshold,
			ParallelThreshold:   cfg.ParallelThreshold,
			Tolerance:           cfg.Tolerance,
			Results:             []models.BenchmarkRecord{},
		},
	}
	interactive := !cfg.JSONOutput && !cfg.Quiet
	record := func(code int) {
		if outcome.ExitCode == apperrors.ExitSuccess {
			outcome.ExitCode = code
		}
	}

	for _, size := range cfg.Sizes {
		if err := ctx.Err(); err != nil {
			record(apperrors.ExitCode(err))
			break
		}
		ops, err := PrepareOperands(size, cfg.Seed, cfg.Pad)
		if err != nil {
			record(apperrors.ExitCode(err))
			continue
		}

		var progressOut io.Writer
		if interactive {
			sizeHeader(out, ops)
			progressOut = out
		}
		results := ExecuteMultiplications(ctx, multipliers, ops, cfg, pool, progressOut)
		cmp := CompareResults(size, results, cfg.Tolerance)
		outcome.Report.Results = append(outcome.Report.Results, BuildRecords(ops, results, cmp, cfg.Tolerance)...)
		if cmp.Reference >= 0 {
			outcome.LastReference = results[cmp.Reference].Result
		}

		if interactive {
			record(AnalyzeComparisonResults(ops, results, cmp, cfg, out))
			continue
		}
		switch {
		case cmp.Reference < 0:
			record(apperrors.ExitCode(cmp.FirstError))
		case len(cmp.Mismatches) > 0:
			record(apperrors.ExitErrorMismatch)
		}
	}
	return outcome
}

// WriteOutput saves the last reference product when cfg.OutputFile is set.
func WriteOutput(outcome BenchmarkOutcome, cfg config.AppConfig, out io.Writer) error {
	if cfg.OutputFile == "" || outcome.LastReference == nil {
		return nil
	}
	return cli.DisplayResultWithConfig(out, "", outcome.LastReference, cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet || cfg.JSONOutput,
	})
}
