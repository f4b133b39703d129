package ingest

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that terminate a text block. Block boundaries
// become blank lines so that downstream chunking can split on section
// starts.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "blockquote": true, "pre": true, "br": true,
}

// skipTags hold no readable content
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"svg": true, "nav": true, "footer": true, "form": true,
}

// ExtractText parses HTML and returns the page title and its visible
// text. Inline elements are joined with spaces, block elements with
// blank lines.
func ExtractText(htmlContent string) (title, text string, err error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", "", err
	}

	var buf strings.Builder
	var blockOpen bool

	endBlock := func() {
		if blockOpen {
			buf.WriteString("\n\n")
			blockOpen = false
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTags[n.Data] {
				return
			}
			if n.Data == "title" && title == "" {
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}

		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if blockOpen {
					buf.WriteString(" ")
				}
				buf.WriteString(t)
				blockOpen = true
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			endBlock()
		}
	}

	walk(doc)
	return title, strings.TrimSpace(buf.String()), nil
}
