package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"go-careersfeed-automation/internal/config"
)

// Manager owns the playwright driver and the shared Chromium instance.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     config.BrowserConfig
}

// NewManager provisions the playwright driver, downloads Chromium when it is
// missing and launches it. A failure here means no page can ever be fetched,
// callers treat it as fatal.
func NewManager(cfg config.BrowserConfig) (*Manager, error) {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return nil, fmt.Errorf("install playwright: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	chromium, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-gpu",
			"--disable-dev-shm-usage",
			"--window-size=1920,1080",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &Manager{pw: pw, browser: chromium, cfg: cfg}, nil
}

// NewContext opens an isolated browser context with the configured user agent.
func (m *Manager) NewContext() (playwright.BrowserContext, error) {
	opts := playwright.BrowserNewContextOptions{}
	if m.cfg.UserAgent != "" {
		opts.UserAgent = playwright.String(m.cfg.UserAgent)
	}
	return m.browser.NewContext(opts)
}

// Close shuts the browser down and stops the driver.
func (m *Manager) Close() error {
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			return err
		}
	}
	if m.pw != nil {
		return m.pw.Stop()
	}
	return nil
}
