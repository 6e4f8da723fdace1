package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tocsmith/tocsmith/internal/judge"
	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/pipeline"
)

var (
	// titleStyle for the document name
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	// dimStyle for page labels and metadata
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// chapterStyle for top-level headings
	chapterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75"))

	// sectionStyle for second-level headings
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	// okStyle for positive reflection verdicts
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// warnStyle for gaps the reflection flagged
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// headerBoxStyle for the document summary header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("75")).
			Padding(0, 1)

	// reflectBoxStyle for the reflection audit box
	reflectBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// renderTerm writes the styled terminal view: a header box, the heading
// tree with level colors and dim page labels, and the reflection audit
// when one ran.
func renderTerm(w io.Writer, res *pipeline.Result, kept []int) error {
	in := keptSet(res.Forest, kept)
	formatTermHeader(w, res, len(in))
	fmt.Fprintln(w)

	walkKept(res.Forest, in, func(n *outline.Node, depth int) {
		var text string
		switch {
		case n.Level <= 1:
			text = chapterStyle.Render(n.Text)
		case n.Level == 2:
			text = sectionStyle.Render(n.Text)
		default:
			text = n.Text
		}
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w, "%s%s %s\n", indent, text, dimStyle.Render("["+pageLabel(n)+"]"))
	})

	if res.Reflection != nil {
		fmt.Fprintln(w)
		formatReflection(w, res.Reflection)
	}
	return nil
}

// formatTermHeader renders the run summary box above the tree.
func formatTermHeader(w io.Writer, res *pipeline.Result, shown int) {
	lines := []string{
		fmt.Sprintf("%s %s", dimStyle.Render("Document:"), titleStyle.Render(res.Document)),
		fmt.Sprintf("%s %d  %s %d  %s %.2f",
			dimStyle.Render("Pages:"), res.TotalPages,
			dimStyle.Render("Headings:"), shown,
			dimStyle.Render("Confidence:"), res.Confidence,
		),
	}
	if res.Stats.LLMCalls > 0 {
		lines = append(lines, fmt.Sprintf("%s %d", dimStyle.Render("Model calls:"), res.Stats.LLMCalls))
	}
	if res.Summary != "" {
		lines = append(lines, dimStyle.Render(res.Summary))
	}
	fmt.Fprintln(w, headerBoxStyle.Render(strings.Join(lines, "\n")))
}

// formatReflection renders the judge's audit box.
func formatReflection(w io.Writer, r *judge.Reflection) {
	var verdict string
	if r.IsComplete {
		verdict = okStyle.Render("complete")
	} else {
		verdict = warnStyle.Render("incomplete")
	}

	lines := []string{
		fmt.Sprintf("%s %s  %s %.2f",
			dimStyle.Render("Reflection:"), verdict,
			dimStyle.Render("Confidence:"), r.Confidence,
		),
	}
	if len(r.MissingHeadings) > 0 {
		lines = append(lines, warnStyle.Render("Possibly missing: ")+strings.Join(r.MissingHeadings, ", "))
	}
	if len(r.IncorrectHeadings) > 0 {
		lines = append(lines, warnStyle.Render("Possibly wrong: ")+strings.Join(r.IncorrectHeadings, ", "))
	}
	if r.Suggestions != "" {
		lines = append(lines, dimStyle.Render(r.Suggestions))
	}
	fmt.Fprintln(w, reflectBoxStyle.Render(strings.Join(lines, "\n")))
}
