package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/matbench/internal/config"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/ui"
)

// GetMultipliersToRun resolves cfg.Algo against factory: every registered
// algorithm in canonical order for "all", otherwise the single match.
func GetMultipliersToRun(cfg config.AppConfig, factory multiply.Factory) []multiply.Multiplier {
	if cfg.Algo == config.DefaultAlgo {
		keys := factory.List()
		multipliers := make([]multiply.Multiplier, 0, len(keys))
		for _, k := range keys {
			if m, err := factory.Get(k); err == nil {
				multipliers = append(multipliers, m)
			}
		}
		return multipliers
	}
	if m, err := factory.Get(cfg.Algo); err == nil {
		return []multiply.Multiplier{m}
	}
	return nil
}

// PrintExecutionConfig prints the sizes, thresholds and environment of the run.
func PrintExecutionConfig(cfg config.AppConfig, workers int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Sizes %s%v%s with a timeout of %s%s%s, seed %s%d%s.\n",
		ui.ColorMagenta(), cfg.Sizes, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset(),
		ui.ColorCyan(), cfg.Seed, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, %s%d%s workers, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), workers, ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Recursion thresholds: sequential=%s%d%s, parallel=%s%d%s.\n",
		ui.ColorCyan(), cfg.SequentialThreshold, ui.ColorReset(),
		ui.ColorCyan(), cfg.ParallelThreshold, ui.ColorReset())
}

// PrintExecutionMode announces whether one algorithm or a comparison runs.
func PrintExecutionMode(multipliers []multiply.Multiplier, out io.Writer) {
	var mode string
	switch len(multipliers) {
	case 0:
		mode = "nothing to run"
	case 1:
		mode = fmt.Sprintf("Single run of the %s%s%s algorithm", ui.ColorGreen(), multipliers[0].Name(), ui.ColorReset())
	default:
		mode = fmt.Sprintf("Comparison of %d algorithms", len(multipliers))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", mode)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
