package main

import (
	"fmt"

	"go-careersfeed-automation/internal/config"
)

func main() {
	fmt.Println("🔧 Testing config loading...")
	cfg := config.Load()
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Organization: %s\n", cfg.Organization)
	fmt.Printf("   Careers URL: %s\n", cfg.CareersURL)
	fmt.Printf("   Base Domain: %s\n", cfg.BaseDomain)
	fmt.Printf("   Default Location: %s\n", cfg.DefaultLocation)
	fmt.Printf("   Feed Output: %s\n", cfg.Feed.OutputPath)
	fmt.Printf("   Feed Self URL: %s\n", cfg.Feed.SelfURL)
	fmt.Printf("   Headless: %v\n", cfg.Browser.Headless)
	fmt.Printf("   Telegram enabled: %v\n", cfg.Telegram.Enabled())
	fmt.Printf("   Archive enabled: %v\n", cfg.Archive.Enabled)
}
