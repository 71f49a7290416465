// Command matbench benchmarks dense matrix multiplication algorithms against
// each other, calibrates their recursion thresholds, or serves them over HTTP.
package main

import (
	"context"
	"os"
	"slices"

	"github.com/agbru/matbench/internal/app"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/multiply"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		asJSON := slices.Contains(os.Args[1:], "-json") || slices.Contains(os.Args[1:], "--json")
		if err := app.PrintVersion(os.Stdout, app.GetBuildInfo(multiply.GlobalFactory()), asJSON); err != nil {
			os.Exit(apperrors.ExitErrorGeneric)
		}
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		// ParseConfig has already reported the error and the usage.
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
