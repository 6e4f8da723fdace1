package reader

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/tocsmith/tocsmith/internal/outline"
)

func TestGroupRows(t *testing.T) {
	// Two visual lines: a 16pt title at Y around 700 and a 10.5pt body
	// line at Y around 680, with runs listed out of order.
	runs := []pdflib.Text{
		{S: "body", X: 72, Y: 680.0, W: 30, Font: "SimSun", FontSize: 10.5},
		{S: "题", X: 88.5, Y: 700.0, W: 16, Font: "SimHei-Bold", FontSize: 16},
		{S: "标", X: 72, Y: 700.2, W: 16, Font: "SimHei-Bold", FontSize: 16},
		{S: "continued", X: 110, Y: 679.5, W: 60, Font: "SimSun", FontSize: 10.5},
		{S: "  ", X: 300, Y: 700.1, W: 5, Font: "SimHei-Bold", FontSize: 16},
	}

	rows := groupRows(runs)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Higher Y comes first (top of page), runs X-sorted within the row,
	// whitespace-only runs dropped.
	if len(rows[0]) != 2 {
		t.Fatalf("row[0] has %d runs, want 2", len(rows[0]))
	}
	if rows[0][0].S != "标" || rows[0][1].S != "题" {
		t.Errorf("row[0] = %q %q, want 标 题", rows[0][0].S, rows[0][1].S)
	}
	if rows[1][0].S != "body" || rows[1][1].S != "continued" {
		t.Errorf("row[1] = %q %q, want body continued", rows[1][0].S, rows[1][1].S)
	}
}

func TestRowUnit(t *testing.T) {
	t.Run("word gap inserts space", func(t *testing.T) {
		// Gap of 6pt between runs exceeds 0.3 x 12pt = 3.6pt.
		row := []pdflib.Text{
			{S: "1.2", X: 72, W: 18, Font: "SimSun", FontSize: 12},
			{S: "范围", X: 96, W: 24, Font: "SimSun", FontSize: 12},
		}
		u := rowUnit(row, 3, 7)
		if u.Text != "1.2 范围" {
			t.Errorf("Text = %q, want %q", u.Text, "1.2 范围")
		}
		if u.Page != 3 || u.Index != 7 {
			t.Errorf("Page/Index = %d/%d, want 3/7", u.Page, u.Index)
		}
		if u.X0 != 72 {
			t.Errorf("X0 = %v, want 72", u.X0)
		}
	})

	t.Run("adjacent runs join without space", func(t *testing.T) {
		row := []pdflib.Text{
			{S: "总", X: 72, W: 12, Font: "SimHei", FontSize: 12},
			{S: "则", X: 84.2, W: 12, Font: "SimHei", FontSize: 12},
		}
		u := rowUnit(row, 1, 0)
		if u.Text != "总则" {
			t.Errorf("Text = %q, want %q", u.Text, "总则")
		}
	})

	t.Run("largest font wins", func(t *testing.T) {
		row := []pdflib.Text{
			{S: "第一章", X: 72, W: 48, Font: "SimHei-Bold", FontSize: 16},
			{S: "1", X: 500, W: 6, Font: "SimSun", FontSize: 9},
		}
		u := rowUnit(row, 1, 0)
		if u.FontSize != 16 {
			t.Errorf("FontSize = %v, want 16", u.FontSize)
		}
		if u.FontName != "SimHei-Bold" {
			t.Errorf("FontName = %q, want SimHei-Bold", u.FontName)
		}
		if !u.Bold {
			t.Error("Bold = false, want true")
		}
	})

	t.Run("text is NFC normalized", func(t *testing.T) {
		row := []pdflib.Text{
			{S: "Café", X: 72, W: 30, Font: "Times", FontSize: 11},
		}
		u := rowUnit(row, 1, 0)
		if u.Text != "Café" {
			t.Errorf("Text = %q, want %q", u.Text, "Café")
		}
	})
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		font string
		want bool
	}{
		{"SimHei-Bold", true},
		{"TimesBold", true},
		{"Arial-Black", true},
		{"HELVETICA-BOLDOBLIQUE", true},
		{"SimSun", false},
		{"FZHTJW--GB1-0", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isBoldFont(tt.font); got != tt.want {
			t.Errorf("isBoldFont(%q) = %v, want %v", tt.font, got, tt.want)
		}
	}
}

func TestFlattenBookmarks(t *testing.T) {
	bms := []pdfcpu.Bookmark{
		{
			Title:    " 第一章 总则 ",
			PageFrom: 1,
			Kids: []pdfcpu.Bookmark{
				{Title: "1.1 范围", PageFrom: 2},
				{Title: "1.2 定义", PageFrom: 5},
			},
		},
		{Title: "第二章 要求", PageFrom: 10},
	}

	var entries []outline.Entry
	flattenBookmarks(bms, 1, &entries)

	want := []struct {
		level int
		text  string
		page  int
	}{
		{1, "第一章 总则", 1},
		{2, "1.1 范围", 2},
		{2, "1.2 定义", 5},
		{1, "第二章 要求", 10},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		e := entries[i]
		if e.Level != w.level || e.Text != w.text || e.Page != w.page {
			t.Errorf("entry[%d] = {%d %q %d}, want {%d %q %d}",
				i, e.Level, e.Text, e.Page, w.level, w.text, w.page)
		}
	}
}
