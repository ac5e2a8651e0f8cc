package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RenderedHTML navigates to url in a fresh browser context, gives the
// client-side rendering time to settle, nudges lazily loaded content by
// scrolling to the bottom and back up, and returns the final DOM as HTML.
func (m *Manager) RenderedHTML(ctx context.Context, url string) (string, error) {
	browserCtx, err := m.NewContext()
	if err != nil {
		return "", fmt.Errorf("create browser context: %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(m.cfg.NavTimeoutMS)),
	}); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", url, err)
	}

	if err := settle(ctx, m.cfg.InitialWaitMS); err != nil {
		return "", err
	}

	if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
		return "", fmt.Errorf("scroll to bottom: %w", err)
	}
	if err := settle(ctx, m.cfg.ScrollWaitMS); err != nil {
		return "", err
	}

	if _, err := page.Evaluate("window.scrollTo(0, 0)"); err != nil {
		return "", fmt.Errorf("scroll to top: %w", err)
	}
	if err := settle(ctx, m.cfg.FinalWaitMS); err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return content, nil
}

// settle pauses for the configured wait, bailing out early when the run is
// cancelled.
func settle(ctx context.Context, ms int) error {
	if ms <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return nil
	}
}
