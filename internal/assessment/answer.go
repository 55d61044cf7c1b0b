package assessment

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CheckAnswer compares a given answer against the expected one. The match
// is exact after trimming and upper-casing; numeric answers compare as typed,
// so "093" does not match "93".
func CheckAnswer(given, expected string) bool {
	given = strings.TrimSpace(given)
	if given == "" {
		return false
	}
	return strings.ToUpper(given) == strings.ToUpper(strings.TrimSpace(expected))
}

// FoldAccents strips combining marks: "Lápiz" becomes "Lapiz".
func FoldAccents(s string) string {
	// Chained transformers keep state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		return folded
	}
	return s
}

func normalize(s string) string {
	return strings.ToUpper(FoldAccents(strings.Join(strings.Fields(s), " ")))
}

// matchOption returns the canonical option for a given choice, matching by
// text or by 1-based index.
func matchOption(given string, options []string) (string, bool) {
	given = strings.TrimSpace(given)
	if given == "" {
		return "", false
	}
	if idx, err := strconv.Atoi(given); err == nil && idx >= 1 && idx <= len(options) {
		return options[idx-1], true
	}
	for _, opt := range options {
		if normalize(opt) == normalize(given) {
			return opt, true
		}
	}
	return "", false
}
