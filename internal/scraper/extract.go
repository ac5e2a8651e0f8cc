// Three-tier extraction of job postings from rendered careers-page markup.
//
// Careers sites built on ATS platforms render their listings client-side and
// rarely agree on markup, so candidates are located by a fallback chain of
// heuristics: explicit job-card class names first, then requisition links,
// then a generic heading-plus-link shape. Each tier runs only when every
// earlier tier found nothing.

package scraper

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"go-careersfeed-automation/internal/filter"
)

// cardClassKeywords mark strategy-1 candidates. The match is a
// case-insensitive substring test against the whole class attribute.
var cardClassKeywords = []string{"job-card", "job-item", "position", "vacancy", "requisition"}

const (
	// maxCandidates bounds the work per run regardless of strategy.
	maxCandidates = 50
	// maxTitleRunes caps titles taken from a candidate's own text.
	maxTitleRunes = 100
	// minAnchorTextRunes is the strategy-2 gate: requisition anchors with 5
	// or fewer characters of visible text are icons or pagination chrome.
	minAnchorTextRunes = 6
)

// Extractor turns rendered page markup into accepted job records.
type Extractor struct {
	org             string
	baseDomain      string
	defaultLocation string
}

// NewExtractor builds an extractor for one organization's careers page.
// baseDomain is used to absolutize relative hrefs and must not end in "/".
func NewExtractor(org, baseDomain, defaultLocation string) *Extractor {
	return &Extractor{
		org:             org,
		baseDomain:      strings.TrimRight(baseDomain, "/"),
		defaultLocation: defaultLocation,
	}
}

// Extract parses html and returns the surviving job records in document
// order, along with the strategy that located them. A page where no strategy
// matches yields an empty slice and StrategyNone; only unparseable input is
// an error.
func (e *Extractor) Extract(html string) ([]Job, Strategy, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, StrategyNone, fmt.Errorf("parse rendered page: %w", err)
	}

	candidates, strategy := findCandidates(doc)
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	var jobs []Job
	for _, c := range candidates {
		job, ok := e.buildJob(c)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, strategy, nil
}

// matcher pairs a strategy tag with the function that finds its candidates.
type matcher struct {
	strategy Strategy
	find     func(doc *goquery.Document) []*goquery.Selection
}

// matchers is the fallback chain, in priority order.
var matchers = []matcher{
	{StrategyClassKeyword, findByCardClass},
	{StrategyRequisitionLink, findRequisitionLinks},
	{StrategyStructural, findStructured},
}

func findCandidates(doc *goquery.Document) ([]*goquery.Selection, Strategy) {
	for _, m := range matchers {
		if found := m.find(doc); len(found) > 0 {
			return found, m.strategy
		}
	}
	return nil, StrategyNone
}

// findByCardClass picks block and list elements whose class attribute names
// a job card.
func findByCardClass(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("div, article, li").Each(func(_ int, s *goquery.Selection) {
		class, ok := s.Attr("class")
		if !ok {
			return
		}
		lower := strings.ToLower(class)
		for _, kw := range cardClassKeywords {
			if strings.Contains(lower, kw) {
				out = append(out, s)
				return
			}
		}
	})
	return out
}

// findRequisitionLinks picks anchors whose target contains "requisition",
// skipping those with too little visible text to be a posting title.
func findRequisitionLinks(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(strings.ToLower(href), "requisition") {
			return
		}
		if utf8.RuneCountInString(CleanText(s.Text())) < minAnchorTextRunes {
			return
		}
		out = append(out, s)
	})
	return out
}

// findStructured picks containers that hold both a heading-or-anchor and a
// link target. The loosest tier: it fires on almost any structured content,
// so the per-candidate checks downstream do the real filtering.
func findStructured(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("div, article").Each(func(_ int, s *goquery.Selection) {
		if s.Find("h2, h3, h4, a").Length() == 0 {
			return
		}
		if s.Find("a[href]").Length() == 0 {
			return
		}
		out = append(out, s)
	})
	return out
}

// buildJob applies the per-candidate checks and assembles the record.
// Candidates with no resolvable link or an unacceptable title are dropped.
func (e *Extractor) buildJob(s *goquery.Selection) (Job, bool) {
	link, ok := e.resolveLink(s)
	if !ok {
		return Job{}, false
	}

	title := extractTitle(s)
	if !filter.AcceptableTitle(title) {
		return Job{}, false
	}

	location := classKeywordText(s, "span, div, p", "location")
	if location == "" {
		location = e.defaultLocation
	}
	department := classKeywordText(s, "span, div, p", "department")

	return Job{
		Title:       title,
		Link:        link,
		Location:    location,
		Department:  department,
		Description: e.describe(title, department, location),
	}, true
}

// resolveLink returns the candidate's absolute target URL. Anchor candidates
// use their own href; containers use their first linked descendant.
func (e *Extractor) resolveLink(s *goquery.Selection) (string, bool) {
	href := ""
	if goquery.NodeName(s) == "a" {
		href, _ = s.Attr("href")
	} else {
		a := s.Find("a[href]").First()
		if a.Length() == 0 {
			return "", false
		}
		href, _ = a.Attr("href")
	}

	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	return e.absolutize(href), true
}

// absolutize resolves an href against the configured base domain: absolute
// targets pass through, rooted paths are prefixed, and everything else is
// joined with a separating slash.
func (e *Extractor) absolutize(href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return e.baseDomain + href
	default:
		return e.baseDomain + "/" + href
	}
}

// extractTitle picks the candidate's title element in preference order:
// a heading or anchor whose class contains "title", the first heading, the
// first anchor, then the candidate's own text capped at 100 runes. The
// preferred element wins even when its text is empty; the acceptance check
// discards such candidates.
func extractTitle(s *goquery.Selection) string {
	titled := s.Find("h2, h3, h4, a").FilterFunction(func(_ int, el *goquery.Selection) bool {
		class, ok := el.Attr("class")
		return ok && strings.Contains(strings.ToLower(class), "title")
	}).First()
	if titled.Length() > 0 {
		return CleanText(titled.Text())
	}

	if h := s.Find("h2, h3, h4").First(); h.Length() > 0 {
		return CleanText(h.Text())
	}
	if a := s.Find("a").First(); a.Length() > 0 {
		return CleanText(a.Text())
	}
	return truncateRunes(CleanText(s.Text()), maxTitleRunes)
}

// classKeywordText returns the cleaned text of the first descendant matching
// names whose class contains keyword, or "".
func classKeywordText(s *goquery.Selection, names, keyword string) string {
	found := s.Find(names).FilterFunction(func(_ int, el *goquery.Selection) bool {
		class, ok := el.Attr("class")
		return ok && strings.Contains(strings.ToLower(class), keyword)
	}).First()
	if found.Length() == 0 {
		return ""
	}
	return CleanText(found.Text())
}

// describe composes the record's free-text description as one sentence.
func (e *Extractor) describe(title, department, location string) string {
	if department != "" {
		return fmt.Sprintf("%s at %s (%s) in %s.", title, e.org, department, location)
	}
	return fmt.Sprintf("%s at %s in %s.", title, e.org, location)
}
