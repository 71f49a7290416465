// Package app wires the matbench components together: configuration,
// calibration, the benchmark harness and the HTTP server. It also owns the
// process lifecycle and the version information.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"

	"github.com/agbru/matbench/internal/multiply"
)

// Set at build time, e.g.
//
//	go build -ldflags="-X github.com/agbru/matbench/internal/app.Version=v1.2.3 -X github.com/agbru/matbench/internal/app.Commit=abc123 -X github.com/agbru/matbench/internal/app.BuildDate=2025-01-01T00:00:00Z"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionFlags = []string{"-version", "--version", "-V"}

// HasVersionFlag reports whether args ask for the version, wherever the
// flag appears before a "--" terminator.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if slices.Contains(versionFlags, arg) {
			return true
		}
	}
	return false
}

// BuildInfo describes the binary and the multiplication engine it embeds.
type BuildInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	BuildDate  string   `json:"build_date"`
	GoVersion  string   `json:"go_version"`
	Platform   string   `json:"platform"`
	MaxProcs   int      `json:"max_procs"`
	Algorithms []string `json:"algorithms"`
	// Default base-case dimensions, before calibration or flags.
	SequentialThreshold int `json:"default_seq_threshold"`
	ParallelThreshold   int `json:"default_par_threshold"`
}

// GetBuildInfo collects the build variables and the algorithms registered
// in factory.
func GetBuildInfo(factory multiply.Factory) BuildInfo {
	return BuildInfo{
		Version:             Version,
		Commit:              Commit,
		BuildDate:           BuildDate,
		GoVersion:           runtime.Version(),
		Platform:            runtime.GOOS + "/" + runtime.GOARCH,
		MaxProcs:            runtime.GOMAXPROCS(0),
		Algorithms:          factory.List(),
		SequentialThreshold: multiply.DefaultSequentialThreshold,
		ParallelThreshold:   multiply.DefaultParallelThreshold,
	}
}

// PrintVersion writes info as text, or as JSON when asJSON is set.
func PrintVersion(out io.Writer, info BuildInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	_, err := fmt.Fprintf(out, "matbench %s (commit %s, built %s)\n"+
		"  %s %s, GOMAXPROCS=%d\n"+
		"  algorithms: %s\n"+
		"  default thresholds: seq=%d par=%d\n",
		info.Version, info.Commit, info.BuildDate,
		info.GoVersion, info.Platform, info.MaxProcs,
		strings.Join(info.Algorithms, ", "),
		info.SequentialThreshold, info.ParallelThreshold)
	return err
}
