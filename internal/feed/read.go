package feed

import (
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mmcdole/gofeed"
)

// ReadKnownLinks parses a previously generated feed and collects the link of
// every item. A missing, empty or malformed file is normal (first run, feed
// wiped by hand) and yields the empty set rather than an error.
func ReadKnownLinks(path string) mapset.Set[string] {
	known := mapset.NewSet[string]()

	f, err := os.Open(path)
	if err != nil {
		return known
	}
	defer f.Close()

	parsed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return known
	}

	for _, item := range parsed.Items {
		if item.Link != "" {
			known.Add(item.Link)
		}
	}
	return known
}
