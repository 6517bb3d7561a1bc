package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separatorPattern matches name separators and whitespace runs.
var separatorPattern = regexp.MustCompile(`[,\-./\s]+`)

// umlautReplacer expands ASCII transliterations back into umlauts so the
// diacritic pass collapses all three spellings onto the base letter.
var umlautReplacer = strings.NewReplacer(
	"ae", "ä",
	"oe", "ö",
	"ue", "ü",
)

// Canonicalize reduces a person name to the form used for comparison:
// separators become single spaces, the name is case-folded, ae/oe/ue become
// umlauts, and all diacritics are stripped. The passes repeat until the value
// is stable, so Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(name string) string {
	current := collapseSeparators(name)
	// After the first pass every rewrite shortens the string, so this terminates.
	for {
		next := collapseSeparators(stripDiacritics(umlautReplacer.Replace(cases.Fold().String(current))))
		if next == current {
			break
		}
		current = next
	}
	return current
}

func collapseSeparators(value string) string {
	return strings.TrimSpace(separatorPattern.ReplaceAllString(value, " "))
}

func stripDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}
