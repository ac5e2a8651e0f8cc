package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-careersfeed-automation/internal/browser"
	"go-careersfeed-automation/internal/config"
	"go-careersfeed-automation/internal/scraper"
)

func main() {
	fmt.Println("🌐 Testing browser manager...")

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	manager, err := browser.NewManager(cfg.Browser)
	if err != nil {
		log.Fatalf("Failed to init browser: %v", err)
	}
	defer manager.Close()

	fmt.Println("✅ Browser launched")
	fmt.Printf("🔍 Rendering %s ...\n", cfg.CareersURL)

	html, err := manager.RenderedHTML(ctx, cfg.CareersURL)
	if err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}
	fmt.Printf("✅ Rendered %d bytes of HTML\n", len(html))

	extractor := scraper.NewExtractor(cfg.Organization, cfg.BaseDomain, cfg.DefaultLocation)
	jobs, strategy, err := extractor.Extract(html)
	if err != nil {
		log.Fatalf("Failed to extract: %v", err)
	}
	fmt.Printf("✅ Extracted %d jobs using %s strategy\n", len(jobs), strategy)

	for i, job := range jobs {
		if i >= 5 {
			fmt.Printf("   ... and %d more\n", len(jobs)-5)
			break
		}
		fmt.Printf("   • %s -> %s\n", job.Title, job.Link)
	}
	fmt.Println("✨ Test complete!")
}
