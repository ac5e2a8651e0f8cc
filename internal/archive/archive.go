// Package archive keeps a permanent record of every scrape run and every job
// ever observed. The published feed only carries what is new, the archive is
// where history accumulates.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"go-careersfeed-automation/internal/feed"
	"go-careersfeed-automation/internal/scraper"
	"go-careersfeed-automation/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// Run summarizes a single pipeline execution.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Strategy    string
	Extracted   int
	Fresh       int
	FeedWritten bool
}

// StoredJob is a job row as persisted, with the run that first saw it.
type StoredJob struct {
	Link        string
	GUID        string
	Title       string
	Location    string
	Department  string
	FirstSeenAt time.Time
	RunID       string
}

// Archive is backed by a SQLite database.
type Archive struct {
	db *sql.DB
}

// New opens a SQLite database at dsn and runs pending migrations.
func New(dsn string) (*Archive, error) {
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// RecordRun persists the summary of a finished run.
func (a *Archive) RecordRun(ctx context.Context, run Run) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, strategy, extracted, fresh, feed_written)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
		run.Strategy, run.Extracted, run.Fresh, boolToInt(run.FeedWritten),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordJobs stores jobs under the run that saw them. Links already archived
// are left untouched, so the same posting observed across many runs keeps its
// original first_seen_at. Returns how many rows were actually new.
func (a *Archive) RecordJobs(ctx context.Context, runID string, seenAt time.Time, jobs []scraper.Job) (int, error) {
	inserted := 0
	for _, job := range jobs {
		res, err := a.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO jobs (link, guid, title, location, department, first_seen_at, run_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			job.Link, feed.GUIDString(job.Link), job.Title, job.Location, job.Department,
			seenAt.UTC().Format(timeLayout), runID,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert job %s: %w", job.Link, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

// CountJobs returns how many distinct jobs the archive has ever seen.
func (a *Archive) CountJobs(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return count, nil
}

// RecentJobs returns the most recently archived jobs, newest first.
func (a *Archive) RecentJobs(ctx context.Context, limit int) ([]StoredJob, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT link, guid, title, location, department, first_seen_at, run_id
		 FROM jobs ORDER BY first_seen_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []StoredJob
	for rows.Next() {
		var j StoredJob
		var seen string
		if err := rows.Scan(&j.Link, &j.GUID, &j.Title, &j.Location, &j.Department, &seen, &j.RunID); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.FirstSeenAt, _ = time.Parse(timeLayout, seen)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
