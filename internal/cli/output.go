package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/ui"
)

// OutputConfig controls how a benchmark result is rendered.
type OutputConfig struct {
	// OutputFile receives the product as CSV; empty disables file output.
	OutputFile string
	// Sample is the edge of the top-left block printed; 0 disables it.
	Sample int
	// Quiet suppresses everything but errors.
	Quiet bool
}

// DisplaySample prints the leading sample×sample block of m, clamped to
// the matrix dimension.
func DisplaySample(out io.Writer, label string, m *matrix.Matrix, sample int) {
	if m == nil || sample <= 0 {
		return
	}
	k := min(sample, m.Dim())
	fmt.Fprintf(out, "%s%s%s (top-left %d×%d of %d×%d):\n", ui.ColorBold(), label, ui.ColorReset(), k, k, m.Dim(), m.Dim())
	for i := 0; i < k; i++ {
		row := m.Row(i)
		for j := 0; j < k; j++ {
			fmt.Fprintf(out, " %s%10.3f%s", ui.ColorCyan(), row[j], ui.ColorReset())
		}
		if k < m.Dim() {
			fmt.Fprint(out, " …")
		}
		fmt.Fprintln(out)
	}
	if k < m.Dim() {
		fmt.Fprintln(out, " ⋮")
	}
}

// WriteMatrixCSV writes m to w, one CSV record per row, with the shortest
// representation that round-trips each float64.
func WriteMatrixCSV(w io.Writer, m *matrix.Matrix) error {
	cw := csv.NewWriter(w)
	record := make([]string, m.Dim())
	for i := 0; i < m.Dim(); i++ {
		for j, v := range m.Row(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultToFile saves m as CSV to config.OutputFile, creating the
// parent directory when needed. It is a no-op without an output file.
func WriteResultToFile(m *matrix.Matrix, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	if m == nil {
		return fmt.Errorf("no result to write")
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteMatrixCSV(file, m); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}

// DisplayResultWithConfig prints the sample block of m and saves it to the
// configured file.
func DisplayResultWithConfig(out io.Writer, label string, m *matrix.Matrix, config OutputConfig) error {
	if !config.Quiet {
		DisplaySample(out, label, m, config.Sample)
	}
	if config.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(m, config); err != nil {
		return err
	}
	if !config.Quiet {
		fmt.Fprintf(out, "%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
