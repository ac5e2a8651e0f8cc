package main

import (
	"context"
	"log"
	"time"

	"go-careersfeed-automation/internal/archive"
	"go-careersfeed-automation/internal/browser"
	"go-careersfeed-automation/internal/config"
	"go-careersfeed-automation/internal/pipeline"
	"go-careersfeed-automation/internal/reporter"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Organization: %s", cfg.Organization)

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("🚀 Starting careers feed run...")

	//init browser, the only failure that aborts the process
	manager, err := browser.NewManager(cfg.Browser)
	if err != nil {
		log.Fatalf("❌ Failed to init browser: %v", err)
	}
	defer manager.Close()
	log.Println("✅ Browser initialized successfully!")

	//init telegram notifier if configured
	var notifier pipeline.Notifier
	if cfg.Telegram.Enabled() {
		tg, err := reporter.NewTelegramReporter(cfg.Telegram)
		if err != nil {
			log.Printf("⚠️ Failed to init Telegram, continuing without notifications: %v", err)
		} else {
			notifier = tg
			log.Println("🤖 Telegram notifier initialized.")
		}
	}

	//open job archive if enabled
	var archiver pipeline.Archiver
	if cfg.Archive.Enabled {
		a, err := archive.New(cfg.Archive.Path)
		if err != nil {
			log.Printf("⚠️ Failed to open archive, continuing without history: %v", err)
		} else {
			defer a.Close()
			archiver = a
			log.Printf("🗄️ Archive opened: %s", cfg.Archive.Path)
		}
	}

	p := pipeline.NewPipeline(cfg, manager, notifier, archiver)
	result, err := p.Run(ctx)
	if err != nil {
		log.Printf("❌ Run %s failed: %v", result.RunID, err)
	}

	log.Printf("📦 Run %s: %d known, %d extracted, %d new, feed written: %v",
		result.RunID, result.Known, result.Extracted, len(result.Fresh), result.FeedWritten)
	log.Println("🏁 Execution finished.")
}
