// Package testutil holds helpers shared by the package tests.
package testutil

import "regexp"

// ansiRegex matches CSI escape sequences such as the theme colors.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes the color codes from rendered terminal output, so
// tables and status lines can be matched whatever the active theme.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
