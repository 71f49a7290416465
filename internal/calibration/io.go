package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/matbench/internal/cli"
	"github.com/agbru/matbench/internal/config"
	"github.com/agbru/matbench/internal/ui"
)

// printCalibrationResults prints one titled table of threshold timings.
func printCalibrationResults(out io.Writer, title string, results []calibrationResult, bestThreshold int) {
	fmt.Fprintf(out, "\n--- %s ---\n", title)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sThreshold%s    │ %sExecution Time%s\n", ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			durationStr = cli.FormatExecutionDuration(res.Duration)
		}
		highlight := ""
		if res.Threshold == bestThreshold && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12d%s │ %s%s%s%s\n", ui.ColorCyan(), res.Threshold, ui.ColorReset(), ui.ColorYellow(), durationStr, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the thresholds chosen by an auto-calibration.
func printCalibrationOutput(prefix string, cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%s%s%s: sequential=%s%d%s, parallel=%s%d%s\n",
		ui.ColorGreen(), prefix, ui.ColorReset(),
		ui.ColorYellow(), cfg.SequentialThreshold, ui.ColorReset(),
		ui.ColorYellow(), cfg.ParallelThreshold, ui.ColorReset())
}
