package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tocsmith/tocsmith/internal/judge"
	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

func testResult(t *testing.T) *pipeline.Result {
	t.Helper()

	cands := []outline.Candidate{
		{ID: 0, Text: "第一章 总则", Page: 1, Level: 1, Confidence: 1.0, Numbering: "第一章", Source: outline.SourceAuthoritative},
		{ID: 1, Text: "（一）定义", Page: 2, Level: 2, Confidence: 0.6, Numbering: "（一）", Source: outline.SourceHeuristic, FontSize: 14, FontName: "SimHei"},
		{ID: 2, Text: "第二章 要求", Page: 5, Level: 1, Confidence: 0.6, Numbering: "第二章", Source: outline.SourceHeuristic},
	}
	forest, err := outline.BuildForest(cands)
	if err != nil {
		t.Fatalf("BuildForest() unexpected error: %v", err)
	}
	outline.ResolveRanges(forest)

	return &pipeline.Result{
		Document:   "annual-report",
		TotalPages: 6,
		Confidence: 0.8,
		Forest:     forest,
		Stats:      pipeline.Stats{Units: 9, Authoritative: 1, Heuristic: 2},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"txt", FormatText, false},
		{"text", FormatText, false},
		{"csv", FormatCSV, false},
		{"pdf", FormatPDF, false},
		{"term", FormatTerm, false},
		{" TERM ", FormatTerm, false},
		{"yaml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	if got := FormatMarkdown.Ext(); got != "md" {
		t.Errorf("markdown ext = %q, want md", got)
	}
	if got := FormatJSON.Ext(); got != "json" {
		t.Errorf("json ext = %q, want json", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatMarkdown}).Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	want := `# annual-report

Total pages: 6

# 第一章 总则 (p.1-4)
## （一）定义 (p.2)
# 第二章 要求 (p.5)
`
	if buf.String() != want {
		t.Errorf("markdown output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderText(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatText}).Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	want := `annual-report (6 pages)
第一章 总则 [p.1-4]
└─ （一）定义 [p.2]
第二章 要求 [p.5]
`
	if buf.String() != want {
		t.Errorf("text output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderJSON(t *testing.T) {
	res := testResult(t)
	res.Summary = "A regulatory notice."

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatJSON}).Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Document != "annual-report" || doc.TotalPages != 6 {
		t.Errorf("document header = %q/%d, want annual-report/6", doc.Document, doc.TotalPages)
	}
	if doc.Summary != "A regulatory notice." {
		t.Errorf("summary = %q", doc.Summary)
	}
	if len(doc.Headings) != 2 {
		t.Fatalf("got %d top-level headings, want 2", len(doc.Headings))
	}

	first := doc.Headings[0]
	if first.Text != "第一章 总则" || first.Level != 1 || first.Page != 1 {
		t.Errorf("first heading = %+v", first)
	}
	if first.PageRange == nil || first.PageRange.Start != 1 || first.PageRange.End != 4 {
		t.Errorf("first page range = %+v, want 1..4", first.PageRange)
	}
	if first.Numbering != "第一章" {
		t.Errorf("numbering = %q, want 第一章", first.Numbering)
	}
	if first.Confidence != nil {
		t.Error("confidence present without IncludeConfidence")
	}
	if len(first.Children) != 1 || first.Children[0].Text != "（一）定义" {
		t.Errorf("children = %+v, want one nested 定义 node", first.Children)
	}
	if doc.Headings[1].PageRange != nil {
		t.Errorf("last heading range = %+v, want nil", doc.Headings[1].PageRange)
	}
}

func TestRenderJSONMetadataFlags(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	e := Exporter{Format: FormatJSON, IncludeConfidence: true, IncludeFontInfo: true}
	if err := e.Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	first := doc.Headings[0]
	if first.Confidence == nil || *first.Confidence != 1.0 {
		t.Errorf("first confidence = %v, want 1.0", first.Confidence)
	}
	if first.FontSize != nil {
		t.Errorf("first font size = %v, want omitted for unknown font", *first.FontSize)
	}

	child := first.Children[0]
	if child.FontSize == nil || *child.FontSize != 14 {
		t.Errorf("child font size = %v, want 14", child.FontSize)
	}
	if child.FontName != "SimHei" {
		t.Errorf("child font name = %q, want SimHei", child.FontName)
	}
}

func TestRenderCSV(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	e := Exporter{Format: FormatCSV, IncludeConfidence: true, IncludeFontInfo: true}
	if err := e.Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}

	wantHeader := []string{"Level", "Text", "Page", "Numbering", "Confidence", "Font Size", "Font Name"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	wantRow := []string{"2", "（一）定义", "2", "（一）", "0.60", "14.0", "SimHei"}
	if !reflect.DeepEqual(rows[2], wantRow) {
		t.Errorf("row 2 = %v, want %v", rows[2], wantRow)
	}
}

func TestRenderCSVMinimalHeader(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatCSV}).Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := []string{"Level", "Text", "Page", "Numbering"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("header = %v, want %v", rows[0], want)
	}
}

func TestRenderPDF(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatPDF}).Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with PDF magic: %q", buf.Bytes()[:8])
	}
	if buf.Len() < 500 {
		t.Errorf("suspiciously small PDF: %d bytes", buf.Len())
	}
}

func TestRenderTerm(t *testing.T) {
	res := testResult(t)
	res.Reflection = &judge.Reflection{
		IsComplete:      false,
		MissingHeadings: []string{"附录A"},
		Confidence:      0.7,
	}

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatTerm}).Render(&buf, res, nil); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"annual-report", "第一章 总则", "p.1-4", "incomplete", "附录A"} {
		if !strings.Contains(out, want) {
			t.Errorf("term output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderKeptSubset(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatText}).Render(&buf, res, []int{2}); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "第一章") || strings.Contains(out, "定义") {
		t.Errorf("dropped nodes leaked into output:\n%s", out)
	}
	if !strings.Contains(out, "第二章 要求") {
		t.Errorf("kept node missing from output:\n%s", out)
	}
}

func TestRenderKeptSkipsDroppedChild(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatText}).Render(&buf, res, []int{0}); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "定义") {
		t.Errorf("dropped child rendered under kept parent:\n%s", buf.String())
	}
}

func TestRenderKeptOrphanSurfacesAtTop(t *testing.T) {
	res := testResult(t)

	var buf bytes.Buffer
	if err := (Exporter{Format: FormatText}).Render(&buf, res, []int{1}); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	want := "（一）定义 [p.2]"
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "定义") && line != want {
			t.Errorf("orphan line = %q, want flush %q", line, want)
		}
	}
}

func TestSave(t *testing.T) {
	res := testResult(t)
	dir := t.TempDir()

	path, err := (Exporter{Format: FormatMarkdown}).Save(dir, res, nil)
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if got := filepath.Base(path); got != "annual-report_headings.md" {
		t.Errorf("saved file = %q, want annual-report_headings.md", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !strings.Contains(string(data), "# annual-report") {
		t.Errorf("saved content missing title:\n%s", data)
	}
}

func TestSaveRejectsTerm(t *testing.T) {
	res := testResult(t)
	if _, err := (Exporter{Format: FormatTerm}).Save(t.TempDir(), res, nil); err == nil {
		t.Fatal("Save() expected error for term format")
	}
}
