package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/matbench/internal/config"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/ui"
)

func mustFromRows(t *testing.T, rows [][]float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return m
}

func TestDisplaySample(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	m := mustFromRows(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})

	t.Run("Truncated", func(t *testing.T) {
		var buf bytes.Buffer
		DisplaySample(&buf, "iterative", m, 2)
		out := buf.String()
		for _, want := range []string{"iterative (top-left 2×2 of 3×3)", "1.000", "5.000", "…", "⋮"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "9.000") {
			t.Errorf("sample should not include the last row:\n%s", out)
		}
	})

	t.Run("ClampedToDimension", func(t *testing.T) {
		var buf bytes.Buffer
		DisplaySample(&buf, "ref", m, 10)
		if !strings.Contains(buf.String(), "3×3 of 3×3") || strings.Contains(buf.String(), "⋮") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		var buf bytes.Buffer
		DisplaySample(&buf, "ref", m, 0)
		DisplaySample(&buf, "ref", nil, 3)
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestWriteMatrixCSV(t *testing.T) {
	t.Parallel()
	m := mustFromRows(t, [][]float64{{1.5, -2}, {0.1, 1e-20}})
	var buf bytes.Buffer
	if err := WriteMatrixCSV(&buf, m); err != nil {
		t.Fatalf("WriteMatrixCSV: %v", err)
	}
	want := "1.5,-2\n0.1,1e-20\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	m := mustFromRows(t, [][]float64{{19, 22}, {43, 50}})
	path := filepath.Join(t.TempDir(), "nested", "product.csv")

	var buf bytes.Buffer
	if err := DisplayResultWithConfig(&buf, "iterative", m, OutputConfig{OutputFile: path, Sample: 2}); err != nil {
		t.Fatalf("DisplayResultWithConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "19,22\n43,50\n" {
		t.Errorf("file content = %q", data)
	}
	if !strings.Contains(buf.String(), "Result saved to: "+path) {
		t.Errorf("missing confirmation:\n%s", buf.String())
	}

	buf.Reset()
	if err := DisplayResultWithConfig(&buf, "iterative", m, OutputConfig{Sample: 2, Quiet: true}); err != nil {
		t.Fatalf("quiet: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("quiet mode printed %q", buf.String())
	}

	if err := WriteResultToFile(nil, OutputConfig{OutputFile: path}); err == nil {
		t.Error("expected an error without a result")
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{3 * 1024 * 1024 / 2, "1.5 MiB"},
		{5 << 30, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetMultipliersToRun(t *testing.T) {
	t.Parallel()
	factory := multiply.GlobalFactory()

	all := GetMultipliersToRun(config.AppConfig{Algo: "all"}, factory)
	if len(all) != len(factory.List()) {
		t.Errorf("expected %d multipliers, got %d", len(factory.List()), len(all))
	}

	one := GetMultipliersToRun(config.AppConfig{Algo: multiply.StrassenSeq}, factory)
	if len(one) != 1 || one[0].Name() != multiply.StrassenSeq {
		t.Errorf("unexpected selection %v", one)
	}

	if got := GetMultipliersToRun(config.AppConfig{Algo: "nope"}, factory); got != nil {
		t.Errorf("expected nil for unknown algorithm, got %v", got)
	}
}

func TestPrintExecution(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	var buf bytes.Buffer
	cfg := config.AppConfig{Sizes: []int{64, 128}, SequentialThreshold: 32, ParallelThreshold: 64, Seed: 9}
	PrintExecutionConfig(cfg, 4, &buf)
	multipliers := GetMultipliersToRun(config.AppConfig{Algo: multiply.Iterative}, multiply.GlobalFactory())
	PrintExecutionMode(multipliers, &buf)

	out := buf.String()
	for _, want := range []string{"[64 128]", "4 workers", "sequential=32", "parallel=64", "Single run of the iterative algorithm", "Starting Execution"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
