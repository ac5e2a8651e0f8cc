// Package pipeline wires a full scrape cycle together: read what was already
// published, render and extract the careers page, keep what is new and
// publish the delta as an RSS feed.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"go-careersfeed-automation/internal/archive"
	"go-careersfeed-automation/internal/config"
	"go-careersfeed-automation/internal/dedup"
	"go-careersfeed-automation/internal/feed"
	"go-careersfeed-automation/internal/scraper"
	"go-careersfeed-automation/utils"
)

// Fetcher renders a careers page in a real browser.
type Fetcher interface {
	RenderedHTML(ctx context.Context, url string) (string, error)
}

// Notifier announces new postings and failures.
type Notifier interface {
	SendJob(job scraper.Job) error
	SendStatus(message string) error
	SendError(err error) error
}

// Archiver persists run summaries and job history.
type Archiver interface {
	RecordRun(ctx context.Context, run archive.Run) error
	RecordJobs(ctx context.Context, runID string, seenAt time.Time, jobs []scraper.Job) (int, error)
}

// Result is what a single run did.
type Result struct {
	RunID       string
	Strategy    scraper.Strategy
	Known       int
	Extracted   int
	Fresh       []scraper.Job
	FeedWritten bool
}

type Pipeline struct {
	cfg       *config.Config
	fetcher   Fetcher
	extractor *scraper.Extractor
	notifier  Notifier
	archiver  Archiver
	snapshots *utils.SnapshotDebugger
	now       func() time.Time
}

// NewPipeline assembles a run. notifier and archiver may be nil when those
// integrations are disabled.
func NewPipeline(cfg *config.Config, fetcher Fetcher, notifier Notifier, archiver Archiver) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: scraper.NewExtractor(cfg.Organization, cfg.BaseDomain, cfg.DefaultLocation),
		notifier:  notifier,
		archiver:  archiver,
		snapshots: utils.NewSnapshotDebugger(cfg.Browser.SnapshotDir),
		now:       time.Now,
	}
}

// Run executes one scrape cycle. The feed on disk is only touched when there
// is something new to publish, or when no feed exists yet and an empty one
// has to be put in place. A page that cannot be scraped degrades to an empty
// job list, never to a crash.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	startedAt := p.now()

	known := feed.ReadKnownLinks(p.cfg.Feed.OutputPath)
	result.Known = known.Cardinality()
	log.Printf("📋 Loaded %d previously published links", result.Known)

	jobs := p.scrape(ctx, result)
	result.Extracted = len(jobs)

	fresh := dedup.Partition(jobs, known)
	result.Fresh = fresh
	log.Printf("🔍 Deduplication: %d extracted -> %d new", len(jobs), len(fresh))

	feedExists := fileExists(p.cfg.Feed.OutputPath)
	switch {
	case len(fresh) > 0:
		if err := p.publish(fresh, startedAt); err != nil {
			p.notifyError(err)
			p.record(ctx, result, startedAt)
			return result, err
		}
		result.FeedWritten = true
		log.Printf("💾 Feed written with %d new jobs: %s", len(fresh), p.cfg.Feed.OutputPath)
		p.announce(fresh)
	case !feedExists:
		if err := p.publish(nil, startedAt); err != nil {
			p.notifyError(err)
			p.record(ctx, result, startedAt)
			return result, err
		}
		result.FeedWritten = true
		log.Printf("💾 No jobs and no feed on disk yet, wrote empty feed: %s", p.cfg.Feed.OutputPath)
	default:
		log.Println("ℹ️ Nothing new, feed left untouched.")
	}

	p.record(ctx, result, startedAt)
	return result, nil
}

// scrape fetches and extracts, degrading to an empty job list when the page
// cannot be rendered or parsed.
func (p *Pipeline) scrape(ctx context.Context, result *Result) []scraper.Job {
	pageHTML, err := p.fetcher.RenderedHTML(ctx, p.cfg.CareersURL)
	if err != nil {
		log.Printf("⚠️ Failed to scrape %s: %v", p.cfg.CareersURL, err)
		p.notifyError(err)
		return nil
	}

	jobs, strategy, err := p.extractor.Extract(pageHTML)
	if err != nil {
		log.Printf("⚠️ Failed to parse page: %v", err)
		p.notifyError(err)
		p.snapshots.Save("careers", pageHTML)
		return nil
	}
	result.Strategy = strategy
	log.Printf("✅ Extracted %d jobs using %s strategy", len(jobs), strategy)
	if len(jobs) == 0 {
		// Keep the markup of empty runs around for offline inspection.
		p.snapshots.Save("careers", pageHTML)
	}
	return jobs
}

func (p *Pipeline) publish(fresh []scraper.Job, at time.Time) error {
	if dir := filepath.Dir(p.cfg.Feed.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return feed.WriteFile(p.cfg.Feed.OutputPath, p.channel(), fresh, at)
}

func (p *Pipeline) channel() feed.Channel {
	return feed.Channel{
		Title:       p.cfg.Feed.Title,
		Link:        p.cfg.Feed.Link,
		Description: p.cfg.Feed.Description,
		Language:    p.cfg.Feed.Language,
		SelfURL:     p.cfg.Feed.SelfURL,
		BaseURL:     p.cfg.BaseDomain,
	}
}

func (p *Pipeline) announce(fresh []scraper.Job) {
	if p.notifier == nil {
		return
	}
	for _, job := range fresh {
		if err := p.notifier.SendJob(job); err != nil {
			log.Printf("⚠️ Failed to send job to Telegram: %v", err)
		}
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
	status := fmt.Sprintf("Published %d new job(s) to the feed.", len(fresh))
	if err := p.notifier.SendStatus(status); err != nil {
		log.Printf("⚠️ Failed to send status to Telegram: %v", err)
	}
}

func (p *Pipeline) notifyError(err error) {
	if p.notifier == nil {
		return
	}
	if sendErr := p.notifier.SendError(err); sendErr != nil {
		log.Printf("⚠️ Failed to send error to Telegram: %v", sendErr)
	}
}

// record archives what the run did. Archive failures are logged and ignored,
// history must never block publishing.
func (p *Pipeline) record(ctx context.Context, result *Result, startedAt time.Time) {
	if p.archiver == nil {
		return
	}
	if len(result.Fresh) > 0 {
		if _, err := p.archiver.RecordJobs(ctx, result.RunID, startedAt, result.Fresh); err != nil {
			log.Printf("⚠️ Failed to archive jobs: %v", err)
		}
	}
	run := archive.Run{
		ID:          result.RunID,
		StartedAt:   startedAt,
		FinishedAt:  p.now(),
		Strategy:    result.Strategy.String(),
		Extracted:   result.Extracted,
		Fresh:       len(result.Fresh),
		FeedWritten: result.FeedWritten,
	}
	if err := p.archiver.RecordRun(ctx, run); err != nil {
		log.Printf("⚠️ Failed to archive run: %v", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
