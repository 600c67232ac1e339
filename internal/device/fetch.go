// internal/device/fetch.go
package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"browseragent/internal/config"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 BrowserAgent/1.0"

// maxFetchBytes bounds how much of a response body is read.
const maxFetchBytes = 5 << 20

// Fetcher is the content-only browsing device. It fetches pages over plain
// HTTP and cannot click, type, or capture screenshots.
type Fetcher struct {
	cfg    config.BrowserConfig
	logger *zap.Logger
	client *http.Client

	mu         sync.Mutex
	currentURL string
	lastBody   string
}

var _ Device = (*Fetcher)(nil)

// NewFetcher creates a content-only device.
func NewFetcher(cfg config.BrowserConfig, logger *zap.Logger) *Fetcher {
	timeout := cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = defaultNavigationTimeout
	}
	return &Fetcher{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

// Navigate fetches the page and keeps its body for a later Content call.
func (f *Fetcher) Navigate(ctx context.Context, url string) error {
	target := NormalizeURL(url)
	f.logger.Info("Fetching", zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	ua := f.cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch of %s returned status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return fmt.Errorf("failed to read body of %s: %w", target, err)
	}

	f.mu.Lock()
	f.currentURL = target
	f.lastBody = string(body)
	f.mu.Unlock()
	return nil
}

// Content returns the visible text of the most recently fetched page.
func (f *Fetcher) Content(ctx context.Context) (string, error) {
	f.mu.Lock()
	body := f.lastBody
	url := f.currentURL
	f.mu.Unlock()

	if url == "" {
		return "", fmt.Errorf("no page has been fetched yet")
	}
	return VisibleText(body), nil
}

// Click is unavailable without an interactive browser.
func (f *Fetcher) Click(ctx context.Context, selector string) error {
	return fmt.Errorf("click %q: %w", selector, ErrNotSupported)
}

// Type is unavailable without an interactive browser.
func (f *Fetcher) Type(ctx context.Context, selector, text string) error {
	return fmt.Errorf("type into %q: %w", selector, ErrNotSupported)
}

// Screenshot is unavailable without an interactive browser.
func (f *Fetcher) Screenshot(ctx context.Context, path string) error {
	return fmt.Errorf("screenshot: %w", ErrNotSupported)
}

// Interactive reports false; only Navigate and Content work.
func (f *Fetcher) Interactive() bool { return false }

// CurrentURL returns the URL of the last successful fetch.
func (f *Fetcher) CurrentURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentURL
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
