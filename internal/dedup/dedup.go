package dedup

import (
	mapset "github.com/deckarep/golang-set/v2"

	"go-careersfeed-automation/internal/scraper"
)

// Partition splits extracted jobs into the ones not yet published, keeping
// input order. Matching is exact string equality on the link, so a query
// string or trailing slash variant of a published link counts as new.
func Partition(jobs []scraper.Job, known mapset.Set[string]) []scraper.Job {
	fresh := make([]scraper.Job, 0, len(jobs))
	for _, job := range jobs {
		if known != nil && known.Contains(job.Link) {
			continue
		}
		fresh = append(fresh, job)
	}
	return fresh
}

// Links collects every job link into a set.
func Links(jobs []scraper.Job) mapset.Set[string] {
	links := mapset.NewSet[string]()
	for _, job := range jobs {
		links.Add(job.Link)
	}
	return links
}
