package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes a review request base name safe on common
// filesystems. Path separators, colons and asterisks become dashes. Quotes,
// wildcards, redirection characters and control characters are dropped.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(cleaned)
}
