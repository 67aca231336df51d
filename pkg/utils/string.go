package utils

import "strings"

// Truncate shortens s to at most maxLen characters, appending "..." when
// anything was cut. Characters are runes, so multi-byte text is never split.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// Preview truncates s and escapes its newlines so it fits on one log line.
func Preview(s string, maxLen int) string {
	return strings.ReplaceAll(Truncate(s, maxLen), "\n", `\n`)
}
