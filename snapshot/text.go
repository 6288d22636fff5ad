package snapshot

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText renders the text a reader would see below n: script, style,
// noscript and template contents are skipped and block-level elements start
// on a new line. Runs of spaces are collapsed and blank lines dropped.
func VisibleText(n *html.Node) string {
	var b strings.Builder
	collectText(&b, n)

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "head":
			return
		case "br":
			b.WriteString("\n")
			return
		}
	}

	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}

	block := n.Type == html.ElementNode && isBlock(n.Data)
	if block {
		b.WriteString("\n")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}

	if block {
		b.WriteString("\n")
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "body", "dd", "div",
		"dl", "dt", "fieldset", "figcaption", "figure", "footer", "form",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "hr", "li", "main",
		"nav", "ol", "p", "pre", "section", "table", "tr", "td", "th", "ul":
		return true
	}
	return false
}
