// Title acceptance rules for extracted candidates.
// Careers pages surface a lot of chrome (search boxes, nav links) that the
// structural strategies happily pick up; these rules keep it out of the feed.

package filter

import (
	"strings"
	"unicode/utf8"
)

// minTitleLen is the shortest title worth publishing. Anything below this is
// almost always an icon label or a truncated fragment.
const minTitleLen = 5

// navKeywords mark titles that belong to site navigation, not postings.
var navKeywords = []string{
	"search",
	"filter",
	"sort",
	"login",
	"sign in",
	"home",
	"about",
	"contact",
}

// AcceptableTitle reports whether an extracted title looks like a real job
// posting. Empty and too-short titles are rejected, then the navigation
// blacklist is applied.
func AcceptableTitle(title string) bool {
	if utf8.RuneCountInString(title) < minTitleLen {
		return false
	}
	return !IsNavigationTitle(title)
}

// IsNavigationTitle reports whether the lower-cased title contains any of the
// navigation keywords.
func IsNavigationTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range navKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
