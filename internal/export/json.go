package export

import (
	"encoding/json"
	"io"

	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

type jsonDocument struct {
	Document   string        `json:"document"`
	TotalPages int           `json:"total_pages"`
	Summary    string        `json:"summary,omitempty"`
	Headings   []jsonHeading `json:"headings"`
}

type jsonHeading struct {
	Level      int            `json:"level"`
	Text       string         `json:"text"`
	Page       int            `json:"page"`
	PageRange  *jsonPageRange `json:"page_range,omitempty"`
	Numbering  string         `json:"numbering,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
	FontSize   *float64       `json:"font_size,omitempty"`
	FontName   string         `json:"font_name,omitempty"`
	Children   []jsonHeading  `json:"children,omitempty"`
}

type jsonPageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (e Exporter) renderJSON(w io.Writer, res *pipeline.Result, kept []int) error {
	in := keptSet(res.Forest, kept)

	doc := jsonDocument{
		Document:   res.Document,
		TotalPages: res.TotalPages,
		Summary:    res.Summary,
		Headings:   []jsonHeading{},
	}
	for _, r := range exportRoots(res.Forest, in) {
		doc.Headings = append(doc.Headings, e.jsonNode(res.Forest, in, r))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (e Exporter) jsonNode(f *outline.Forest, in map[int]bool, id int) jsonHeading {
	n := f.Node(id)
	h := jsonHeading{
		Level:     n.Level,
		Text:      n.Text,
		Page:      n.Page,
		Numbering: n.Numbering,
	}
	if n.Range.End != nil {
		h.PageRange = &jsonPageRange{Start: n.Range.Start, End: *n.Range.End}
	}
	if e.IncludeConfidence {
		conf := n.Confidence
		h.Confidence = &conf
	}
	if e.IncludeFontInfo {
		if n.FontSize > 0 {
			size := n.FontSize
			h.FontSize = &size
		}
		h.FontName = n.FontName
	}
	for _, c := range n.Children {
		if in[c] {
			h.Children = append(h.Children, e.jsonNode(f, in, c))
		}
	}
	return h
}
