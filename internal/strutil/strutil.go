// Package strutil provides string utility functions shared across the NLU packages.
package strutil

// Truncate truncates a string to a maximum number of runes.
// Rune-level truncation keeps accented Portuguese characters intact.
// Returns empty string if maxLen <= 0 to prevent slice bounds panic.
func Truncate(s string, maxLen int) string {
	if s == "" || maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// Cap truncates a string to a maximum number of runes without an ellipsis.
// Used to bound utterance length before tokenization.
func Cap(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
