package device

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"browseragent/internal/config"
)

const testPage = `<html><head><title>t</title><style>body{color:red}</style></head>
<body><script>var hidden = 1;</script><h1>Example Domain</h1><p>This domain is for use in examples.</p></body></html>`

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	return NewFetcher(config.NewDefaultConfig().Browser, zaptest.NewLogger(t))
}

func TestFetcher_NavigateAndContent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, testPage)
	}))
	t.Cleanup(server.Close)

	f := newTestFetcher(t)
	require.NoError(t, f.Navigate(context.Background(), server.URL))
	assert.Equal(t, server.URL, f.CurrentURL())
	assert.Contains(t, gotUA, "Mozilla/5.0")

	content, err := f.Content(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "Example Domain")
	assert.Contains(t, content, "This domain is for use in examples.")
	assert.NotContains(t, content, "var hidden")
	assert.NotContains(t, content, "color:red")
}

func TestFetcher_NavigateRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	f := newTestFetcher(t)
	err := f.Navigate(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Empty(t, f.CurrentURL(), "a failed fetch must not become the current URL")
}

func TestFetcher_ContentBeforeNavigate(t *testing.T) {
	f := newTestFetcher(t)
	_, err := f.Content(context.Background())
	assert.Error(t, err)
}

func TestFetcher_InteractiveOperationsNotSupported(t *testing.T) {
	f := newTestFetcher(t)
	ctx := context.Background()

	assert.False(t, f.Interactive())
	assert.True(t, errors.Is(f.Click(ctx, "#button"), ErrNotSupported))
	assert.True(t, errors.Is(f.Type(ctx, "#input", "hello"), ErrNotSupported))
	assert.True(t, errors.Is(f.Screenshot(ctx, "out.png"), ErrNotSupported))
}
