package feed

import (
	"encoding/xml"
	"fmt"
	"html"
	"os"
	"time"

	"go-careersfeed-automation/internal/scraper"
)

const (
	dcNamespace   = "http://purl.org/dc/elements/1.1/"
	atomNamespace = "http://www.w3.org/2005/Atom"
)

// Channel holds the feed-level metadata, fixed per organization.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	// SelfURL is where the generated feed will be served from, advertised
	// via atom:link rel="self".
	SelfURL string
	// BaseURL becomes the document's xml:base attribute.
	BaseURL string
}

// rssDoc and friends mirror the RSS 2.0 document shape. encoding/xml has no
// namespace-prefix support on output, so prefixed names are spelled out in
// the field tags, same trick gorilla/feeds uses.
type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DC      string     `xml:"xmlns:dc,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Base    string     `xml:"xml:base,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	Description string      `xml:"description"`
	Language    string      `xml:"language"`
	AtomLink    rssAtomLink `xml:"atom:link"`
	PubDate     string      `xml:"pubDate"`
	Items       []rssItem   `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description cdataText `xml:"description"`
	GUID        rssGUID   `xml:"guid"`
	PubDate     string    `xml:"pubDate"`
	Source      rssSource `xml:"source"`
}

type cdataText struct {
	Text string `xml:",cdata"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssSource struct {
	URL  string `xml:"url,attr"`
	Name string `xml:",chardata"`
}

// Build serializes jobs into an RSS 2.0 document. Every item and the channel
// itself carry the run timestamp as pubDate; item descriptions are entity
// escaped and then CDATA wrapped so markup in job text can never break the
// document. An empty jobs slice yields a valid feed with zero items.
func Build(ch Channel, jobs []scraper.Job, buildTime time.Time) ([]byte, error) {
	pubDate := buildTime.UTC().Format(time.RFC1123Z)

	doc := rssDoc{
		Version: "2.0",
		DC:      dcNamespace,
		Atom:    atomNamespace,
		Base:    ch.BaseURL,
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        ch.Link,
			Description: ch.Description,
			Language:    ch.Language,
			AtomLink: rssAtomLink{
				Href: ch.SelfURL,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			PubDate: pubDate,
			Items:   make([]rssItem, 0, len(jobs)),
		},
	}

	for _, job := range jobs {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       job.Title,
			Link:        job.Link,
			Description: cdataText{Text: html.EscapeString(job.Description)},
			GUID: rssGUID{
				IsPermaLink: "false",
				Value:       GUIDString(job.Link),
			},
			PubDate: pubDate,
			Source: rssSource{
				URL:  ch.Link,
				Name: ch.Title,
			},
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}

	buf := make([]byte, 0, len(xml.Header)+len(out)+1)
	buf = append(buf, xml.Header...)
	buf = append(buf, out...)
	buf = append(buf, '\n')
	return buf, nil
}

// WriteFile builds the feed and writes it to path in one shot.
func WriteFile(path string, ch Channel, jobs []scraper.Job, buildTime time.Time) error {
	data, err := Build(ch, jobs, buildTime)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write feed %s: %w", path, err)
	}
	return nil
}
