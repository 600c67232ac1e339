// Package device provides the browsing devices the agent drives. A device is
// either fully interactive (a real Chrome instance over the DevTools protocol)
// or content-only (plain HTTP fetching); the agent degrades gracefully when an
// action needs more than the device can do.
package device

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"browseragent/internal/config"
)

// ErrNotSupported is returned by a content-only device for operations that
// need an interactive browser. Callers check it with errors.Is and treat it
// as a capability gap, not a failure of the device.
var ErrNotSupported = errors.New("operation not supported by this browsing device")

// Device is a browsing device the agent can drive. All blocking operations
// take a context; content-only implementations return ErrNotSupported from
// Click, Type, and Screenshot.
type Device interface {
	// Navigate loads the given URL (scheme-normalized first) and records it
	// as the current URL on success.
	Navigate(ctx context.Context, url string) error
	// Content returns the visible text of the current page.
	Content(ctx context.Context) (string, error)
	// Click clicks the element matched by the CSS selector.
	Click(ctx context.Context, selector string) error
	// Type replaces the value of the matched element with text.
	Type(ctx context.Context, selector, text string) error
	// Screenshot captures the full page to path on disk.
	Screenshot(ctx context.Context, path string) error
	// Interactive reports whether Click, Type, and Screenshot are available.
	Interactive() bool
	// CurrentURL returns the normalized URL of the last successful Navigate,
	// or "" before any navigation.
	CurrentURL() string
	// Close releases the device's resources.
	Close() error
}

// New builds the best available device: an interactive Chrome session when a
// browser can be launched, otherwise a plain HTTP fetcher. Falling back is
// logged but never an error; the agent runs with reduced capability.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) Device {
	chrome, err := NewChrome(ctx, cfg, logger)
	if err == nil {
		logger.Info("Interactive browser session established")
		return chrome
	}
	logger.Warn("Could not launch browser, falling back to HTTP fetching. Click, type, and screenshot actions will be unavailable.",
		zap.Error(err))
	return NewFetcher(cfg, logger)
}

// NormalizeURL prefixes bare host URLs with https so providers may emit
// either form. URLs that already carry a scheme pass through unchanged.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return url
	}
	if strings.Contains(url, "://") {
		return url
	}
	return "https://" + url
}
