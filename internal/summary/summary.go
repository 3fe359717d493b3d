// Package summary prints the end-of-run terminal summary.
package summary

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dzerrenner/verdict/pkg/verdict"
)

// Theme defines the styles used for the counter line.
type Theme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}

// DefaultTheme returns the colored theme.
func DefaultTheme() Theme {
	return Theme{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

// MonoTheme returns an unstyled theme for NO_COLOR and piped output.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{Success: plain, Error: plain, Warning: plain, Muted: plain, Bold: plain}
}

// Printer writes the run summary.
type Printer struct {
	theme Theme
	width int
}

// NewPrinter picks the theme and width for w: colored when w is a terminal
// and noColor is false, plain otherwise.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	p := &Printer{theme: MonoTheme(), width: 80}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if !noColor {
			p.theme = DefaultTheme()
		}
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			p.width = tw
		}
	}
	return p
}

// Print writes the counter line followed by the generated-file separator.
func (p *Printer) Print(w io.Writer, doc verdict.Document, path string) {
	fmt.Fprintln(w, p.counterLine(doc))
	fmt.Fprintln(w, p.separator(fmt.Sprintf("generated json file: %s", path)))
}

func (p *Printer) counterLine(doc verdict.Document) string {
	parts := []string{
		p.theme.Success.Render(fmt.Sprintf("%d passed", doc.Passed)),
		p.theme.Error.Render(fmt.Sprintf("%d failed", doc.Failed)),
		p.theme.Error.Render(fmt.Sprintf("%d errors", doc.Errors)),
		p.theme.Muted.Render(fmt.Sprintf("%d skipped", doc.Skipped)),
	}
	if doc.XFailed > 0 || doc.XPassed > 0 {
		parts = append(parts,
			p.theme.Warning.Render(fmt.Sprintf("%d xfailed", doc.XFailed)),
			p.theme.Warning.Render(fmt.Sprintf("%d xpassed", doc.XPassed)))
	}
	if doc.Rerun != nil {
		parts = append(parts, p.theme.Warning.Render(fmt.Sprintf("%d rerun", *doc.Rerun)))
	}
	return strings.Join(parts, p.theme.Muted.Render(", ")) +
		p.theme.Muted.Render(fmt.Sprintf(" (sum %d, %.2fs)", doc.Sum, doc.Duration))
}

// separator renders msg centered in a dashed rule, pytest-style.
func (p *Printer) separator(msg string) string {
	inner := " " + msg + " "
	pad := p.width - lipgloss.Width(inner)
	if pad < 2 {
		return p.theme.Muted.Render("-" + inner + "-")
	}
	left := pad / 2
	right := pad - left
	return p.theme.Muted.Render(strings.Repeat("-", left) + inner + strings.Repeat("-", right))
}
