package reader

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/tocsmith/tocsmith/internal/outline"
)

// readHTML walks the parsed tree in document order. h1 through h6
// become authoritative entries, content blocks become units, and
// "page" is the 1-based block position. nav and footer are skipped
// along with script and style; a nav block usually duplicates the
// real headings as links.
func readHTML(name string, data []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{Name: name}
	block := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if text := htmlText(n); text != "" {
					block++
					doc.Outline = append(doc.Outline, outline.Entry{Level: level, Text: text, Page: block})
					doc.Units = append(doc.Units, outline.Unit{Text: text, Page: block, Index: len(doc.Units)})
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer":
				return
			case "p", "li", "td", "blockquote":
				if text := htmlText(n); text != "" {
					block++
					doc.Units = append(doc.Units, outline.Unit{Text: text, Page: block, Index: len(doc.Units)})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	doc.TotalPages = block
	return doc, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// htmlText flattens the text nodes under n.
func htmlText(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
