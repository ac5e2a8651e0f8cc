// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultPath = "configs/config.yaml"

// Settle waits outside this range are clamped; a misconfigured wait should
// never stall a run for minutes or skip settling entirely.
const maxWaitMS = 60000

type Config struct {
	Organization    string `yaml:"organization"`
	CareersURL      string `yaml:"careers_url"`
	BaseDomain      string `yaml:"base_domain"`
	DefaultLocation string `yaml:"default_location"`

	Browser  BrowserConfig  `yaml:"browser"`
	Feed     FeedConfig     `yaml:"feed"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type BrowserConfig struct {
	Headless      bool   `yaml:"headless"`
	UserAgent     string `yaml:"user_agent"`
	NavTimeoutMS  int    `yaml:"nav_timeout_ms"`
	InitialWaitMS int    `yaml:"initial_wait_ms"`
	ScrollWaitMS  int    `yaml:"scroll_wait_ms"`
	FinalWaitMS   int    `yaml:"final_wait_ms"`
	SnapshotDir   string `yaml:"snapshot_dir"`
}

type FeedConfig struct {
	OutputPath  string `yaml:"output_path"`
	SelfURL     string `yaml:"self_url"`
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type TelegramConfig struct {
	Token  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether notifications are configured at all.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

func defaults() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:      true,
			UserAgent:     "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			NavTimeoutMS:  60000,
			InitialWaitMS: 10000,
			ScrollWaitMS:  5000,
			FinalWaitMS:   3000,
		},
		Feed: FeedConfig{
			Language: "en-us",
		},
		Archive: ArchiveConfig{
			Path: "data/archive.db",
		},
	}
}

func Load() *Config {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}

	cfg, err := loadFile(path)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

func loadFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.finalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the environment override the file, the same precedence the
// rest of the tooling expects.
func (c *Config) applyEnv() error {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}

	if url := os.Getenv("CAREERS_URL"); url != "" {
		c.CareersURL = url
	}

	if out := os.Getenv("FEED_OUTPUT_PATH"); out != "" {
		c.Feed.OutputPath = out
	}

	if headless := os.Getenv("HEADLESS"); headless != "" {
		v, err := strconv.ParseBool(headless)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		c.Browser.Headless = v
	}

	return nil
}

// finalize fills derived defaults and clamps the settle waits.
func (c *Config) finalize() {
	c.BaseDomain = strings.TrimRight(c.BaseDomain, "/")

	if c.DefaultLocation == "" {
		c.DefaultLocation = c.Organization
	}

	if c.Feed.Title == "" && c.Organization != "" {
		c.Feed.Title = c.Organization + " Careers"
	}
	if c.Feed.Link == "" {
		c.Feed.Link = c.BaseDomain
	}
	if c.Feed.Description == "" && c.Organization != "" {
		c.Feed.Description = "Latest job openings at " + c.Organization
	}

	c.Browser.NavTimeoutMS = clampWait(c.Browser.NavTimeoutMS)
	c.Browser.InitialWaitMS = clampWait(c.Browser.InitialWaitMS)
	c.Browser.ScrollWaitMS = clampWait(c.Browser.ScrollWaitMS)
	c.Browser.FinalWaitMS = clampWait(c.Browser.FinalWaitMS)
}

func clampWait(ms int) int {
	if ms < 0 {
		return 0
	}
	if ms > maxWaitMS {
		return maxWaitMS
	}
	return ms
}

func (c *Config) Validate() error {
	var missing []string
	if c.Organization == "" {
		missing = append(missing, "organization")
	}
	if c.CareersURL == "" {
		missing = append(missing, "careers_url")
	}
	if c.BaseDomain == "" {
		missing = append(missing, "base_domain")
	}
	if c.Feed.OutputPath == "" {
		missing = append(missing, "feed.output_path")
	}
	if c.Feed.SelfURL == "" {
		missing = append(missing, "feed.self_url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if !isHTTPURL(c.CareersURL) {
		return fmt.Errorf("careers_url must be an absolute http(s) URL, got %q", c.CareersURL)
	}
	if !isHTTPURL(c.BaseDomain) {
		return fmt.Errorf("base_domain must be an absolute http(s) URL, got %q", c.BaseDomain)
	}

	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
