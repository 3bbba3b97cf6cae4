// Package report prints plans and summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Report writes styled blocks to a writer. Colors are dropped when the
// writer is not a terminal.
type Report struct {
	w     io.Writer
	title lipgloss.Style
	label lipgloss.Style
	warn  lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
	rule  lipgloss.Style
}

// New creates a report writing to w
func New(w io.Writer) *Report {
	r := lipgloss.NewRenderer(w)
	return &Report{
		w:     w,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		label: r.NewStyle().Width(18),
		warn:  r.NewStyle().Foreground(lipgloss.Color("214")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("42")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("196")),
		muted: r.NewStyle().Foreground(lipgloss.Color("241")),
		rule:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Title prints a heading between two rules
func (r *Report) Title(text string) {
	line := r.rule.Render(strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "\n%s\n%s\n%s\n", line, r.title.Render(text), line)
}

// Heading prints a section heading
func (r *Report) Heading(text string) {
	fmt.Fprintf(r.w, "\n%s\n", r.title.Render(text))
}

// Field prints an aligned "label value" line
func (r *Report) Field(label string, value any) {
	fmt.Fprintf(r.w, "  %s %v\n", r.label.Render(label+":"), value)
}

// Line prints plain text
func (r *Report) Line(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Note prints dimmed text
func (r *Report) Note(format string, args ...any) {
	fmt.Fprintln(r.w, r.muted.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a highlighted warning
func (r *Report) Warn(format string, args ...any) {
	fmt.Fprintln(r.w, r.warn.Render("! "+fmt.Sprintf(format, args...)))
}

// Success prints a check-marked line
func (r *Report) Success(format string, args ...any) {
	fmt.Fprintln(r.w, r.ok.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Failure prints a cross-marked line
func (r *Report) Failure(format string, args ...any) {
	fmt.Fprintln(r.w, r.fail.Render("✗ "+fmt.Sprintf(format, args...)))
}

// List prints up to max items, one per line, followed by how many were
// left out (max <= 0 prints everything)
func (r *Report) List(items []string, max int) {
	shown := items
	if max > 0 && len(items) > max {
		shown = items[:max]
	}
	for _, item := range shown {
		fmt.Fprintf(r.w, "  - %s\n", item)
	}
	if rest := len(items) - len(shown); rest > 0 {
		fmt.Fprintln(r.w, r.muted.Render(fmt.Sprintf("  ... and %d more", rest)))
	}
}

// Pairs prints "key → value" rows with the keys padded to one width
func (r *Report) Pairs(pairs [][2]string, max int) {
	shown := pairs
	if max > 0 && len(pairs) > max {
		shown = pairs[:max]
	}

	width := 0
	for _, p := range shown {
		width = max2(width, lipgloss.Width(p[0]))
	}
	for _, p := range shown {
		fmt.Fprintf(r.w, "  - %s%s → %s\n", p[0], strings.Repeat(" ", width-lipgloss.Width(p[0])), p[1])
	}
	if rest := len(pairs) - len(shown); rest > 0 {
		fmt.Fprintln(r.w, r.muted.Render(fmt.Sprintf("  ... and %d more", rest)))
	}
}

// Table prints rows under a header with columns padded to fit
func (r *Report) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max2(widths[i], lipgloss.Width(row[i]))
		}
	}

	format := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight("  "+strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(r.w, r.title.Render(format(header)))
	for _, row := range rows {
		fmt.Fprintln(r.w, format(row))
	}
}

// Money formats dollars with two decimals
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
