// internal/device/content.go
package device

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are containers whose text is never user-visible content.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"head":     true,
}

// VisibleText reduces an HTML document to the text a reader would see, one
// trimmed fragment per line. Malformed markup is tolerated; the tokenizer
// recovers the way browsers do.
func VisibleText(rawHTML string) string {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		// html.Parse only fails on reader errors, not bad markup.
		return strings.TrimSpace(rawHTML)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(parts, "\n")
}
