package regions

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims surrounding whitespace and lowercases s. Inner spacing is
// kept as typed, so "tamil  nadu" does not match "tamil nadu".
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// cases.Caser is stateful; a fresh one per call keeps Normalize goroutine-safe.
	return cases.Lower(language.Und).String(s)
}
