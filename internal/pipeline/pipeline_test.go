package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-careersfeed-automation/internal/archive"
	"go-careersfeed-automation/internal/config"
	"go-careersfeed-automation/internal/feed"
	"go-careersfeed-automation/internal/scraper"
)

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) RenderedHTML(ctx context.Context, url string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

type fakeArchiver struct {
	runs []archive.Run
	jobs map[string][]scraper.Job
}

func (f *fakeArchiver) RecordRun(ctx context.Context, run archive.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeArchiver) RecordJobs(ctx context.Context, runID string, seenAt time.Time, jobs []scraper.Job) (int, error) {
	if f.jobs == nil {
		f.jobs = map[string][]scraper.Job{}
	}
	f.jobs[runID] = jobs
	return len(jobs), nil
}

type fakeNotifier struct {
	jobs     []scraper.Job
	statuses []string
	errs     []error
	fail     bool
}

func (f *fakeNotifier) SendJob(job scraper.Job) error {
	f.jobs = append(f.jobs, job)
	if f.fail {
		return errors.New("telegram down")
	}
	return nil
}

func (f *fakeNotifier) SendStatus(message string) error {
	f.statuses = append(f.statuses, message)
	if f.fail {
		return errors.New("telegram down")
	}
	return nil
}

func (f *fakeNotifier) SendError(err error) error {
	f.errs = append(f.errs, err)
	if f.fail {
		return errors.New("telegram down")
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Organization:    "Example Org",
		CareersURL:      "https://example.org/careers",
		BaseDomain:      "https://example.org",
		DefaultLocation: "Example Org",
		Feed: config.FeedConfig{
			OutputPath:  filepath.Join(t.TempDir(), "jobs.rss"),
			SelfURL:     "https://feeds.example.org/jobs.rss",
			Title:       "Example Org Careers",
			Link:        "https://example.org",
			Description: "Open positions at Example Org",
			Language:    "en-us",
		},
	}
}

func slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

// pageWithJobs builds a rendered careers page with one job card per title.
// Links are derived from the title so the same posting keeps the same link
// across simulated runs.
func pageWithJobs(titles ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><main>")
	for _, title := range titles {
		fmt.Fprintf(&sb,
			`<div class="job-card"><h3 class="job-title">%s</h3><a href="/jobs/%s">Apply</a></div>`,
			title, slug(title),
		)
	}
	sb.WriteString("</main></body></html>")
	return sb.String()
}

func TestRun_FirstRunWritesAllJobs(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role", "Beta Role")}
	p := NewPipeline(cfg, fetcher, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Known)
	assert.Equal(t, 2, result.Extracted)
	assert.Len(t, result.Fresh, 2)
	assert.True(t, result.FeedWritten)
	assert.Equal(t, scraper.StrategyClassKeyword, result.Strategy)
	assert.NotEmpty(t, result.RunID)

	known := feed.ReadKnownLinks(cfg.Feed.OutputPath)
	assert.True(t, known.Contains("https://example.org/jobs/alpha-role"))
	assert.True(t, known.Contains("https://example.org/jobs/beta-role"))
}

func TestRun_SecondRunUnchangedPage(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role", "Beta Role")}
	p := NewPipeline(cfg, fetcher, nil, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	before, err := os.ReadFile(cfg.Feed.OutputPath)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Known)
	assert.Empty(t, result.Fresh)
	assert.False(t, result.FeedWritten, "an unchanged page must not rewrite the feed")

	after, err := os.ReadFile(cfg.Feed.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "feed bytes must be untouched on a no-op run")
}

// The published feed only ever holds the delta of the latest write. Once a
// posting rotates out of the feed it is no longer a known link, so a page
// still carrying it will get it published again on the following run.
func TestRun_NewJobsReplaceFeedHistory(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role", "Beta Role")}
	p := NewPipeline(cfg, fetcher, nil, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	fetcher.html = pageWithJobs("Alpha Role", "Beta Role", "Gamma Role")
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Fresh, 1)
	assert.Equal(t, "Gamma Role", result.Fresh[0].Title)
	assert.True(t, result.FeedWritten)

	known := feed.ReadKnownLinks(cfg.Feed.OutputPath)
	assert.Equal(t, 1, known.Cardinality(), "rewritten feed carries only the new posting")
	assert.True(t, known.Contains("https://example.org/jobs/gamma-role"))

	result, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Fresh, 2, "postings that rotated out of the feed count as new again")
}

func TestRun_ScrapeFailureFirstRun(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{err: errors.New("net::ERR_TIMED_OUT")}
	notifier := &fakeNotifier{}
	p := NewPipeline(cfg, fetcher, notifier, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err, "a failed scrape must not fail the run")

	assert.Equal(t, 0, result.Extracted)
	assert.Empty(t, result.Fresh)
	assert.True(t, result.FeedWritten, "first run writes an empty feed even when the scrape fails")
	assert.Equal(t, scraper.StrategyNone, result.Strategy)
	require.Len(t, notifier.errs, 1)

	known := feed.ReadKnownLinks(cfg.Feed.OutputPath)
	assert.Equal(t, 0, known.Cardinality())
}

func TestRun_ScrapeFailureKeepsExistingFeed(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role")}
	p := NewPipeline(cfg, fetcher, nil, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	before, err := os.ReadFile(cfg.Feed.OutputPath)
	require.NoError(t, err)

	fetcher.err = errors.New("net::ERR_TIMED_OUT")
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.FeedWritten)
	after, err := os.ReadFile(cfg.Feed.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_EmptyPageFirstRunWritesEmptyFeed(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: "<html><body><p>Maintenance window</p></body></html>"}
	p := NewPipeline(cfg, fetcher, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.FeedWritten)
	assert.Empty(t, result.Fresh)
	assert.Equal(t, scraper.StrategyNone, result.Strategy)

	data, err := os.ReadFile(cfg.Feed.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<channel>")
	assert.NotContains(t, string(data), "<item>")
}

func TestRun_RecordsRunSummary(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role", "Beta Role")}
	archiver := &fakeArchiver{}
	p := NewPipeline(cfg, fetcher, nil, archiver)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, archiver.runs, 1)
	run := archiver.runs[0]
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, "class-keyword", run.Strategy)
	assert.Equal(t, 2, run.Extracted)
	assert.Equal(t, 2, run.Fresh)
	assert.True(t, run.FeedWritten)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
	assert.Len(t, archiver.jobs[result.RunID], 2)
}

func TestRun_ArchivesIntoSQLite(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role", "Beta Role")}

	a, err := archive.New(":memory:")
	require.NoError(t, err)
	defer a.Close()

	p := NewPipeline(cfg, fetcher, nil, a)
	_, err = p.Run(context.Background())
	require.NoError(t, err)

	count, err := a.CountJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRun_NotifierReceivesNewJobs(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role")}
	notifier := &fakeNotifier{}
	p := NewPipeline(cfg, fetcher, notifier, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.jobs, 1)
	assert.Equal(t, "Alpha Role", notifier.jobs[0].Title)
	require.Len(t, notifier.statuses, 1)
	assert.Contains(t, notifier.statuses[0], "1 new job")
}

func TestRun_NotifierFailureDoesNotFailRun(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{html: pageWithJobs("Alpha Role")}
	notifier := &fakeNotifier{fail: true}
	p := NewPipeline(cfg, fetcher, notifier, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.FeedWritten)
}
