package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

const (
	pdfLineHeight  = 6.0
	pdfIndentStep  = 6.0
	pdfPageNumCell = 16.0
)

// renderPDF writes a printable outline sheet: one line per heading,
// indented by depth, page numbers right-aligned. Helvetica covers the
// Latin range only; headings outside it need one of the text formats.
func renderPDF(w io.Writer, res *pipeline.Result, kept []int) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(res.Document, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, res.Document, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("%d pages", res.TotalPages), "", 1, "L", false, 0, "")
	doc.Ln(4)

	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	usable := pageW - left - right

	in := keptSet(res.Forest, kept)
	walkKept(res.Forest, in, func(n *outline.Node, depth int) {
		if n.Level <= 1 {
			doc.SetFont("Helvetica", "B", 11)
		} else {
			doc.SetFont("Helvetica", "", 11)
		}

		indent := float64(depth) * pdfIndentStep
		doc.SetX(left + indent)
		doc.CellFormat(usable-indent-pdfPageNumCell, pdfLineHeight, n.Text, "", 0, "L", false, 0, "")
		doc.CellFormat(pdfPageNumCell, pdfLineHeight, fmt.Sprintf("%d", n.Page), "", 1, "R", false, 0, "")
	})

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
