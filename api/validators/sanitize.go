package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString trims, drops control characters other than newlines and
// tabs, and cuts to maxLen runes.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	if maxLen > 0 && utf8.RuneCountInString(cleaned) > maxLen {
		return string([]rune(cleaned)[:maxLen])
	}
	return cleaned
}
