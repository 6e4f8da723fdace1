package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

// renderMarkdown writes the outline as ATX headings, one per detected
// heading at its own level, under a document title line.
func renderMarkdown(w io.Writer, res *pipeline.Result, kept []int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", res.Document)
	fmt.Fprintf(bw, "\nTotal pages: %d\n\n", res.TotalPages)

	in := keptSet(res.Forest, kept)
	walkKept(res.Forest, in, func(n *outline.Node, depth int) {
		level := n.Level
		if level > 6 {
			level = 6
		}
		fmt.Fprintf(bw, "%s %s (%s)\n", strings.Repeat("#", level), n.Text, pageLabel(n))
	})

	return bw.Flush()
}
