package cli

import (
	"testing"

	"github.com/agbru/matbench/internal/ui"
)

func TestCLIColorProvider(t *testing.T) {
	original := ui.GetCurrentTheme()
	defer ui.SetCurrentTheme(original)

	provider := CLIColorProvider{}

	ui.SetCurrentTheme(ui.DarkTheme)
	if provider.Yellow() == "" || provider.Red() == "" || provider.Reset() == "" {
		t.Error("the dark theme should provide color codes")
	}

	ui.SetCurrentTheme(ui.NoColorTheme)
	if provider.Yellow() != "" || provider.Red() != "" || provider.Reset() != "" {
		t.Error("no color codes expected without a theme")
	}
}
