package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-careersfeed-automation/internal/archive"
	"go-careersfeed-automation/internal/config"
)

func main() {
	fmt.Println("🗄️ Testing archive database...")
	cfg := config.Load()
	if !cfg.Archive.Enabled {
		fmt.Println("ℹ️ Archive is disabled in config, opening it anyway at:", cfg.Archive.Path)
	}

	a, err := archive.New(cfg.Archive.Path)
	if err != nil {
		log.Fatalf("❌ Failed to open archive: %v", err)
	}
	defer a.Close()
	fmt.Println("✅ Archive opened, migrations applied!")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := a.CountJobs(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count jobs: %v", err)
	}
	fmt.Printf("📦 Archive holds %d distinct jobs\n", count)

	recent, err := a.RecentJobs(ctx, 10)
	if err != nil {
		log.Fatalf("❌ Failed to load recent jobs: %v", err)
	}
	for _, job := range recent {
		fmt.Printf("   • %s (%s) first seen %s\n", job.Title, job.Location, job.FirstSeenAt.Format("2006-01-02"))
	}
	fmt.Println("✨ Test complete!")
}
