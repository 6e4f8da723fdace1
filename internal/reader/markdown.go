package reader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/tocsmith/tocsmith/internal/outline"
)

// readMarkdown walks the goldmark AST. Headings become authoritative
// entries; paragraph and list lines become units. "Page" is the 1-based
// source line, so ranges and sibling gaps work on line positions. Code
// blocks are excluded: a "# comment" inside a fence is not a heading.
func readMarkdown(name string, data []byte) (*Document, error) {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(data))

	doc := &Document{Name: name}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			line, ok := nodeLine(node, data)
			if !ok {
				return ast.WalkSkipChildren, nil
			}
			text := strings.TrimSpace(textOf(node, data))
			if text == "" {
				return ast.WalkSkipChildren, nil
			}
			doc.Outline = append(doc.Outline, outline.Entry{Level: node.Level, Text: text, Page: line})
			// The heading line stays in the unit stream so context
			// windows and statistics see it.
			doc.Units = append(doc.Units, outline.Unit{Text: text, Page: line, Index: len(doc.Units)})
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				text := strings.TrimSpace(string(seg.Value(data)))
				if text == "" {
					continue
				}
				doc.Units = append(doc.Units, outline.Unit{
					Text:  text,
					Page:  lineNumber(data, seg.Start),
					Index: len(doc.Units),
				})
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	doc.TotalPages = lineCount(data)
	return doc, nil
}

// textOf collects the plain text of a node's inline tree.
func textOf(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(textOf(c, src))
		}
	}
	return sb.String()
}

// nodeLine resolves the 1-based source line a block node starts on.
func nodeLine(n ast.Node, src []byte) (int, bool) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 0, false
	}
	return lineNumber(src, lines.At(0).Start), true
}

func lineNumber(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return 1 + bytes.Count(src[:offset], []byte{'\n'})
}

func lineCount(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := bytes.Count(src, []byte{'\n'})
	if src[len(src)-1] != '\n' {
		n++
	}
	return n
}
