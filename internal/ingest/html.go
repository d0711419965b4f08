package ingest

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockTags close a run of visible text. Breaking at block boundaries
// keeps adjacent clauses from running together once markup is stripped.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"li": true, "tr": true, "br": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// skipTags never contribute visible text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "head": true, "svg": true,
}

// VisibleText parses HTML and returns the text a reader would see.
// Block elements become line breaks so downstream sentence splitting
// sees clause boundaries instead of one unbroken run.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			if s := buf.String(); s != "" && !strings.HasSuffix(s, "\n") {
				buf.WriteString("\n")
			}
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}
