package ui

import (
	"os"
	"testing"
)

func TestThemeByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"solarized", "dark"},
		{"", "dark"},
	}
	for _, tt := range tests {
		if got := ThemeByName(tt.name).Name; got != tt.want {
			t.Errorf("ThemeByName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	t.Run("flag disables colors", func(t *testing.T) {
		t.Setenv(ThemeEnv, "light")
		InitTheme(true)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("got %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("NO_COLOR disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("got %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("theme from environment", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		os.Unsetenv("NO_COLOR")
		t.Setenv(ThemeEnv, "light")
		InitTheme(false)
		if GetCurrentTheme().Name != "light" {
			t.Errorf("got %q, want light", GetCurrentTheme().Name)
		}
	})
}

func TestPaint(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	SetTheme("dark")
	if got := Paint(ColorGreen(), "ok"); got != DarkTheme.Success+"ok"+DarkTheme.Reset {
		t.Errorf("unexpected painted string %q", got)
	}
	SetTheme("none")
	if got := Paint(ColorGreen(), "ok"); got != "ok" {
		t.Errorf("no-color theme should not paint, got %q", got)
	}
}
