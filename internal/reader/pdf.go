package reader

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"

	"github.com/tocsmith/tocsmith/internal/outline"
)

const (
	// rowTolerance is the Y distance within which styled runs belong to
	// the same visual line.
	rowTolerance = 3.0

	// wordGapFactor scales the font size into the X gap that separates
	// two words.
	wordGapFactor = 0.3
)

func readPDF(name string, data []byte) (*Document, error) {
	units, total, err := styledUnits(data)
	if err != nil {
		units, total, err = pdftotextUnits(data)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
	}

	return &Document{
		Name:       name,
		TotalPages: total,
		Units:      units,
		Outline:    pdfBookmarks(data),
	}, nil
}

// styledUnits reads one unit per visual line, with the font metadata
// the heading scorer feeds on.
func styledUnits(data []byte) ([]outline.Unit, int, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, err
	}

	total := reader.NumPage()
	var units []outline.Unit
	for pageNum := 1; pageNum <= total; pageNum++ {
		runs, err := pageRuns(reader, pageNum)
		if err != nil {
			// One broken content stream should not sink the document.
			continue
		}
		for _, row := range groupRows(runs) {
			u := rowUnit(row, pageNum, len(units))
			if u.Text == "" {
				continue
			}
			units = append(units, u)
		}
	}
	return units, total, nil
}

// pageRuns collects the styled text runs of one page. The underlying
// parser panics on malformed content streams, so the panic is converted
// into an error here.
func pageRuns(reader *pdflib.Reader, pageNum int) (runs []pdflib.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d content: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}
	return page.Content().Text, nil
}

// groupRows buckets runs into visual lines by Y coordinate, top of the
// page first (PDF Y grows bottom to top), each row sorted by X.
func groupRows(runs []pdflib.Text) [][]pdflib.Text {
	type bucket struct {
		yMin, yMax float64
		runs       []pdflib.Text
	}

	var buckets []bucket
	for _, t := range runs {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-rowTolerance && t.Y <= buckets[i].yMax+rowTolerance {
				buckets[i].runs = append(buckets[i].runs, t)
				if t.Y < buckets[i].yMin {
					buckets[i].yMin = t.Y
				}
				if t.Y > buckets[i].yMax {
					buckets[i].yMax = t.Y
				}
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{yMin: t.Y, yMax: t.Y, runs: []pdflib.Text{t}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([][]pdflib.Text, 0, len(buckets))
	for _, b := range buckets {
		row := b.runs
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		rows = append(rows, row)
	}
	return rows
}

// rowUnit merges one row of runs into a text unit. A space is inserted
// when the X gap between runs exceeds wordGapFactor of the font size.
// The unit carries the largest font in the row; headings set in a
// bigger face than a trailing page number should keep their size.
func rowUnit(row []pdflib.Text, page, index int) outline.Unit {
	var (
		sb       strings.Builder
		fontSize float64
		fontName string
		x0       float64
		lastEnd  float64
	)
	for i, t := range row {
		if i == 0 {
			x0 = t.X
		} else {
			gap := wordGapFactor * t.FontSize
			if gap == 0 {
				gap = 1.0
			}
			if t.X-lastEnd > gap {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
		lastEnd = t.X + t.W
		if t.FontSize > fontSize {
			fontSize = t.FontSize
			fontName = t.Font
		}
	}

	return outline.Unit{
		Text:     strings.TrimSpace(norm.NFC.String(sb.String())),
		Page:     page,
		Index:    index,
		FontSize: fontSize,
		FontName: fontName,
		Bold:     isBoldFont(fontName),
		X0:       x0,
	}
}

func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black")
}

// pdfBookmarks reads the embedded outline tree. Most PDFs have none;
// any failure just means no authoritative entries.
func pdfBookmarks(data []byte) []outline.Entry {
	bms, err := api.Bookmarks(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil
	}
	var entries []outline.Entry
	flattenBookmarks(bms, 1, &entries)
	return entries
}

func flattenBookmarks(bms []pdfcpu.Bookmark, depth int, out *[]outline.Entry) {
	for _, bm := range bms {
		if title := strings.TrimSpace(bm.Title); title != "" {
			*out = append(*out, outline.Entry{Level: depth, Text: title, Page: bm.PageFrom})
		}
		if len(bm.Kids) > 0 {
			flattenBookmarks(bm.Kids, depth+1, out)
		}
	}
}
