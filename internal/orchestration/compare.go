package orchestration

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/agbru/matbench/internal/cli"
	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/ui"
	"github.com/agbru/matbench/pkg/models"
)

// Comparison is the consistency check of the runs of one size.
type Comparison struct {
	// Reference is the index of the reference run, -1 when every run failed.
	Reference int
	// RelativeErrors holds, per run, the relative error against the
	// reference product (0 for the reference and failed runs).
	RelativeErrors []float64
	// Mismatches holds one apperrors.MismatchError per run whose relative
	// error is above the tolerance or NaN.
	Mismatches []error
	// FirstError is the first failure, nil when every run succeeded.
	FirstError error
}

// selectReference returns the iterative run when it succeeded, otherwise
// the first successful run, or -1.
func selectReference(results []RunResult) int {
	ref := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if r.Name == multiply.Iterative {
			return i
		}
		if ref < 0 {
			ref = i
		}
	}
	return ref
}

// CompareResults measures every successful product against the reference
// product of size n.
func CompareResults(n int, results []RunResult, tolerance float64) Comparison {
	cmp := Comparison{
		Reference:      selectReference(results),
		RelativeErrors: make([]float64, len(results)),
	}
	for i, r := range results {
		if r.Err != nil {
			if cmp.FirstError == nil {
				cmp.FirstError = r.Err
			}
			continue
		}
		if i == cmp.Reference {
			continue
		}
		ref := results[cmp.Reference]
		rel, err := matrix.RelativeError(r.Result, ref.Result)
		if err != nil {
			rel = math.Inf(1)
		}
		cmp.RelativeErrors[i] = rel
		if !(rel <= tolerance) {
			cmp.Mismatches = append(cmp.Mismatches, apperrors.MismatchError{
				Algorithm:     r.Name,
				Reference:     ref.Name,
				Size:          n,
				RelativeError: rel,
				Tolerance:     tolerance,
			})
		}
	}
	return cmp
}

// BuildRecords converts the runs of one size into report records.
func BuildRecords(ops Operands, results []RunResult, cmp Comparison, tolerance float64) []models.BenchmarkRecord {
	records := make([]models.BenchmarkRecord, 0, len(results))
	for i, r := range results {
		rec := models.BenchmarkRecord{
			Algorithm:     r.Name,
			Size:          ops.Size,
			DurationNS:    r.Duration.Nanoseconds(),
			Duration:      r.Duration.String(),
			AllocBytes:    r.AllocBytes,
			RelativeError: cmp.RelativeErrors[i],
			Status:        models.StatusOK,
			Reference:     i == cmp.Reference,
		}
		if ops.Padded() {
			rec.PaddedSize = ops.A.Dim()
		}
		switch {
		case r.Err != nil:
			rec.Status = models.StatusError
			rec.Error = r.Err.Error()
		case !(cmp.RelativeErrors[i] <= tolerance):
			rec.Status = models.StatusMismatch
		}
		if math.IsInf(rec.RelativeError, 0) || math.IsNaN(rec.RelativeError) {
			rec.RelativeError = -1
		}
		records = append(records, rec)
	}
	return records
}

// AnalyzeComparisonResults prints the summary table of one size, sorted
// by duration with failures last, followed by the global status and the
// sample block of the reference product.
//
// Parameters:
//   - ops: The operands the results were computed from.
//   - results: The runs, in execution order.
//   - cmp: The consistency check of results.
//   - cfg: Supplies the tolerance and sample settings.
//   - out: Destination of the report.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch, or the code of the first
//     failure when no run succeeded.
func AnalyzeComparisonResults(ops Operands, results []RunResult, cmp Comparison, cfg config.AppConfig, out io.Writer) int {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		ri, rj := results[order[x]], results[order[y]]
		if (ri.Err == nil) != (rj.Err == nil) {
			return ri.Err == nil
		}
		return ri.Duration < rj.Duration
	})

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sAllocated%s\t%sRel. error%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for _, i := range order {
		res := results[i]
		var status, relErr string
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			relErr = "-"
		case i == cmp.Reference:
			status = fmt.Sprintf("%s✅ Reference%s", ui.ColorGreen(), ui.ColorReset())
			relErr = "-"
		case !(cmp.RelativeErrors[i] <= cfg.Tolerance):
			status = fmt.Sprintf("%s❌ Mismatch%s", ui.ColorRed(), ui.ColorReset())
			relErr = fmt.Sprintf("%.2e", cmp.RelativeErrors[i])
		default:
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			relErr = fmt.Sprintf("%.2e", cmp.RelativeErrors[i])
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			cli.FormatBytes(res.AllocBytes), relErr, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if cmp.Reference < 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the multiplication.\n")
		return apperrors.HandleCalculationError(cmp.FirstError, 0, out, cli.CLIColorProvider{})
	}

	if len(cmp.Mismatches) > 0 {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the algorithms.\n")
		for _, m := range cmp.Mismatches {
			apperrors.HandleCalculationError(m, 0, out, cli.CLIColorProvider{})
		}
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent within %g.\n", cfg.Tolerance)
	ref := results[cmp.Reference]
	cli.DisplaySample(out, ref.Name, ref.Result, cfg.Sample)
	return apperrors.ExitSuccess
}
