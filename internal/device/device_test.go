package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "example.com", "https://example.com"},
		{"bare host with path", "example.com/a/b", "https://example.com/a/b"},
		{"https untouched", "https://example.com", "https://example.com"},
		{"http untouched", "http://example.com", "http://example.com"},
		{"surrounding whitespace", "  example.com  ", "https://example.com"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestVisibleText(t *testing.T) {
	in := `<html><head><style>.x{}</style><script>bad()</script></head>
<body>
  <h1> Heading </h1>
  <noscript>enable js</noscript>
  <div><p>first</p><p>second</p></div>
  <svg><text>chart label</text></svg>
</body></html>`

	got := VisibleText(in)
	assert.Equal(t, "Heading\nfirst\nsecond", got)
}

func TestVisibleText_MalformedHTML(t *testing.T) {
	got := VisibleText("<p>unclosed <b>bold")
	assert.Contains(t, got, "unclosed")
	assert.Contains(t, got, "bold")
}
