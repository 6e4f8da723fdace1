package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

// renderText writes an indented tree with connector glyphs, the layout
// used for plain-text dumps and logs.
func renderText(w io.Writer, res *pipeline.Result, kept []int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s (%d pages)\n", res.Document, res.TotalPages)

	in := keptSet(res.Forest, kept)
	walkKept(res.Forest, in, func(n *outline.Node, depth int) {
		if depth == 0 {
			fmt.Fprintf(bw, "%s [%s]\n", n.Text, pageLabel(n))
			return
		}
		fmt.Fprintf(bw, "%s└─ %s [%s]\n", strings.Repeat("   ", depth-1), n.Text, pageLabel(n))
	})

	return bw.Flush()
}
