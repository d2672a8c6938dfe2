package document

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// FromHTML extracts the readable text of a legal-notice page. Block elements
// and table cells are separated by whitespace so that numbers held in
// adjacent cells never run together. Scripts, styles and cookie banners are
// skipped. Unparseable input yields an empty string.
func FromHTML(input []byte) string {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return ""
	}
	root := findFirst(node, "body")
	if root == nil {
		root = node
	}
	var b strings.Builder
	collectText(&b, root)
	return normalizeWhitespace(b.String())
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		if isBoilerplateContainer(n) {
			return
		}
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template", "iframe", "head":
			return
		case "br", "hr":
			b.WriteString("\n")
		case "td", "th":
			b.WriteString(" ")
		case "p", "div", "li", "tr", "table", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "dt", "dd":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "td", "th":
			b.WriteString(" ")
		case "p", "div", "li", "tr", "table", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6", "dt", "dd":
			b.WriteString("\n")
		}
	}
}

// isBoilerplateContainer returns true if the element looks like a cookie or
// consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "role" && key != "aria-label" {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr", "rgpd"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

// normalizeWhitespace trims every line, collapses runs of blanks inside a
// line, and keeps at most one empty line in a row.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, collapsed)
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
