// Package export renders a pipeline result into output formats:
// machine-readable (json, csv), document (markdown, txt, pdf) and a
// styled terminal view.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

// Format names one output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
	FormatTerm     Format = "term"
)

// ParseFormat resolves a user-supplied format name, accepting the common
// aliases md and text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	case "term", "terminal":
		return FormatTerm, nil
	}
	return "", fmt.Errorf("unknown format %q (supported: json, markdown, txt, csv, pdf, term)", s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Exporter renders results in one format. The flags gate the optional
// detection metadata columns and fields.
type Exporter struct {
	Format            Format
	IncludeConfidence bool
	IncludeFontInfo   bool
}

// Render writes the outline to w. kept restricts output to those node
// ids; nil keeps everything. Children absent from kept are skipped
// during descent, and a kept node under a dropped parent surfaces as a
// top-level item.
func (e Exporter) Render(w io.Writer, res *pipeline.Result, kept []int) error {
	switch e.Format {
	case FormatJSON:
		return e.renderJSON(w, res, kept)
	case FormatMarkdown:
		return renderMarkdown(w, res, kept)
	case FormatText:
		return renderText(w, res, kept)
	case FormatCSV:
		return e.renderCSV(w, res, kept)
	case FormatPDF:
		return renderPDF(w, res, kept)
	case FormatTerm:
		return renderTerm(w, res, kept)
	}
	return fmt.Errorf("unknown format %q", e.Format)
}

// Save renders into dir as {document}_headings.{ext} and returns the
// written path.
func (e Exporter) Save(dir string, res *pipeline.Result, kept []int) (string, error) {
	if e.Format == FormatTerm {
		return "", errors.New("term output renders to a terminal, pick a file format")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_headings.%s", res.Document, e.Format.Ext()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save outline: %w", err)
	}
	if err := e.Render(f, res, kept); err != nil {
		f.Close()
		return "", fmt.Errorf("save outline: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("save outline: %w", err)
	}
	return path, nil
}

// keptSet expands the kept id list into a membership check. nil keeps
// every node.
func keptSet(f *outline.Forest, kept []int) map[int]bool {
	in := make(map[int]bool, f.Len())
	if kept == nil {
		for i := 0; i < f.Len(); i++ {
			in[i] = true
		}
		return in
	}
	for _, id := range kept {
		if id >= 0 && id < f.Len() {
			in[id] = true
		}
	}
	return in
}

// exportRoots returns the kept nodes that start a rendered subtree: true
// roots plus kept nodes whose parent was dropped. Order follows node
// ids, which Collect assigned in document order.
func exportRoots(f *outline.Forest, in map[int]bool) []int {
	var roots []int
	for i := 0; i < f.Len(); i++ {
		if !in[i] {
			continue
		}
		p := f.Node(i).Parent
		if p < 0 || !in[p] {
			roots = append(roots, i)
		}
	}
	return roots
}

// walkKept runs fn over the kept view in pre-order. depth is 0 for
// rendered roots regardless of heading level.
func walkKept(f *outline.Forest, in map[int]bool, fn func(n *outline.Node, depth int)) {
	var visit func(id, depth int)
	visit = func(id, depth int) {
		fn(f.Node(id), depth)
		for _, c := range f.Node(id).Children {
			if in[c] {
				visit(c, depth+1)
			}
		}
	}
	for _, r := range exportRoots(f, in) {
		visit(r, 0)
	}
}

// pageLabel renders a node's page or resolved page span.
func pageLabel(n *outline.Node) string {
	if n.Range.End != nil && *n.Range.End != n.Range.Start {
		return fmt.Sprintf("p.%d-%d", n.Range.Start, *n.Range.End)
	}
	return fmt.Sprintf("p.%d", n.Page)
}
