package scraper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText normalizes extracted element text: NBSPs become spaces, the
// string is NFC-normalized (rendered pages mix composed and decomposed
// accents), and runs of whitespace collapse to single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes caps s at n runes so multi-byte titles are not cut mid-rune.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
