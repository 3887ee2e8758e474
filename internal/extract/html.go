package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements whose text content is never rendered.
var hiddenElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// HTMLToText returns the visible text of an HTML fragment or document in reading
// order, joined by single spaces. Plain text passes through with whitespace collapsed.
// Decoded angle brackets are dropped so the result never carries markup delimiters.
func HTMLToText(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return collapse(stripAngles(raw))
	}

	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hiddenElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			words = append(words, strings.Fields(stripAngles(n.Data))...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(words, " ")
}

func stripAngles(s string) string {
	return strings.NewReplacer("<", " ", ">", " ").Replace(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
