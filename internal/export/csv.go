package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

// renderCSV writes one flat row per heading in document order. Optional
// metadata columns follow the exporter flags so the header stays stable
// for a given configuration.
func (e Exporter) renderCSV(w io.Writer, res *pipeline.Result, kept []int) error {
	cw := csv.NewWriter(w)

	header := []string{"Level", "Text", "Page", "Numbering"}
	if e.IncludeConfidence {
		header = append(header, "Confidence")
	}
	if e.IncludeFontInfo {
		header = append(header, "Font Size", "Font Name")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	var writeErr error
	in := keptSet(res.Forest, kept)
	walkKept(res.Forest, in, func(n *outline.Node, depth int) {
		if writeErr != nil {
			return
		}
		row := []string{
			strconv.Itoa(n.Level),
			n.Text,
			strconv.Itoa(n.Page),
			n.Numbering,
		}
		if e.IncludeConfidence {
			row = append(row, strconv.FormatFloat(n.Confidence, 'f', 2, 64))
		}
		if e.IncludeFontInfo {
			row = append(row, strconv.FormatFloat(n.FontSize, 'f', 1, 64), n.FontName)
		}
		if err := cw.Write(row); err != nil {
			writeErr = fmt.Errorf("write csv: %w", err)
		}
	})
	if writeErr != nil {
		return writeErr
	}

	cw.Flush()
	return cw.Error()
}
