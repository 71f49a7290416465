// Package ui holds the terminal color themes shared by the CLI, the usage
// message and the error handler.
package ui

import (
	"os"
	"sync"
)

// ThemeEnv selects a theme by name ("dark", "light" or "none").
const ThemeEnv = "MATBENCH_THEME"

// Theme maps output roles to ANSI escape codes.
type Theme struct {
	Name string
	// Primary highlights algorithm names and flags.
	Primary string
	// Secondary is used for defaults and secondary figures.
	Secondary string
	// Success marks matching results and the fastest run.
	Success string
	// Warning marks durations and headings.
	Warning string
	// Error marks failures and mismatches.
	Error string
	// Info marks dimensions and matrix values.
	Info      string
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape codes.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ThemeByName returns the named theme, or DarkTheme for unknown names.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme
	case "none":
		return NoColorTheme
	default:
		return DarkTheme
	}
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name.
func SetTheme(name string) {
	SetCurrentTheme(ThemeByName(name))
}

// InitTheme selects the theme for this process. Colors are disabled when
// noColor is set or NO_COLOR is present (https://no-color.org/); otherwise
// MATBENCH_THEME picks the theme, dark by default.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv(ThemeEnv))
}
