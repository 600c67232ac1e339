// internal/device/chrome.go
package device

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"browseragent/internal/config"
)

const (
	defaultNavigationTimeout = 30 * time.Second
	defaultPostLoadWait      = 1500 * time.Millisecond
	// postClickWait gives the page time to react before the next action.
	postClickWait = 2 * time.Second
	// screenshotQuality is the JPEG quality used for full-page captures.
	screenshotQuality = 90
)

// Chrome is the interactive browsing device, backed by a real browser over
// the DevTools protocol. One Chrome holds one tab for its whole lifetime.
type Chrome struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	mu         sync.Mutex
	currentURL string
	closed     bool
}

var _ Device = (*Chrome)(nil)

// NewChrome launches a browser and opens the tab all subsequent operations
// run in. The launch itself is verified before returning, so callers can
// fall back to a content-only device when no browser is available.
func NewChrome(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Chrome, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.WindowSize(cfg.Viewport.Width, cfg.Viewport.Height),
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		logger.Sugar().Debugf(format, args...)
	}))

	// Run with no tasks forces the browser process to start now, surfacing a
	// missing executable as an error instead of on the first navigation.
	launchCtx, cancel := context.WithTimeout(tabCtx, navigationTimeout(cfg))
	defer cancel()
	if err := chromedp.Run(launchCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Chrome{
		cfg:         cfg,
		logger:      logger,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}, nil
}

func navigationTimeout(cfg config.BrowserConfig) time.Duration {
	if cfg.NavigationTimeout > 0 {
		return cfg.NavigationTimeout
	}
	return defaultNavigationTimeout
}

func (c *Chrome) postLoadWait() time.Duration {
	if c.cfg.PostLoadWait > 0 {
		return c.cfg.PostLoadWait
	}
	return defaultPostLoadWait
}

// run executes tasks in the device's tab, bounded by both the caller's
// context and the operation timeout.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, tasks ...chromedp.Action) error {
	opCtx, cancel := combineContext(c.tabCtx, ctx)
	defer cancel()
	opCtx, timeoutCancel := context.WithTimeout(opCtx, timeout)
	defer timeoutCancel()
	return chromedp.Run(opCtx, tasks...)
}

// Navigate loads the URL and waits for the document body plus a short settle
// period for dynamic content.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	target := NormalizeURL(url)
	c.logger.Info("Navigating", zap.String("url", target))

	err := c.run(ctx, navigationTimeout(c.cfg),
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Sleep(c.postLoadWait()),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", target, err)
	}

	c.mu.Lock()
	c.currentURL = target
	c.mu.Unlock()
	return nil
}

// Content returns the visible text of the current page.
func (c *Chrome) Content(ctx context.Context) (string, error) {
	var rawHTML string
	if err := c.run(ctx, navigationTimeout(c.cfg), chromedp.OuterHTML("html", &rawHTML)); err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return VisibleText(rawHTML), nil
}

// Click scrolls the element into view, clicks it, and waits for the page to
// react.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	c.logger.Info("Clicking element", zap.String("selector", selector))
	err := c.run(ctx, navigationTimeout(c.cfg),
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.Sleep(postClickWait),
	)
	if err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

// Type clears the matched element and types text into it.
func (c *Chrome) Type(ctx context.Context, selector, text string) error {
	c.logger.Info("Typing into element", zap.String("selector", selector))
	err := c.run(ctx, navigationTimeout(c.cfg),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to type into %q: %w", selector, err)
	}
	return nil
}

// Screenshot captures the full page as a JPEG at path, creating parent
// directories as needed.
func (c *Chrome) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := c.run(ctx, navigationTimeout(c.cfg), chromedp.FullScreenshot(&buf, screenshotQuality)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	c.logger.Info("Screenshot saved", zap.String("path", path))
	return nil
}

// Interactive always reports true; every operation is available.
func (c *Chrome) Interactive() bool { return true }

// CurrentURL returns the URL of the last successful navigation.
func (c *Chrome) CurrentURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentURL
}

// Close shuts down the tab and the browser process. Safe to call twice.
func (c *Chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.tabCancel()
	c.allocCancel()
	return nil
}

// combineContext derives a context from base that is also canceled when aux
// is canceled. The tab context carries the CDP target, so it must be the
// parent; the caller's context only contributes cancellation.
func combineContext(base, aux context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(base)
	stop := context.AfterFunc(aux, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
