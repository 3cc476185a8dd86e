package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	primary   = lipgloss.Color("#3584e4") // blue
	secondary = lipgloss.Color("#99c1f1") // light blue
	success   = lipgloss.Color("#2ec27e") // green
	errorCol  = lipgloss.Color("#e01b24") // red
	muted     = lipgloss.Color("#7f7f7f") // gray

	labelStyle   = lipgloss.NewStyle().Foreground(primary).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(secondary)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success)
	errorStyle   = lipgloss.NewStyle().Foreground(errorCol)
	sectionStyle = lipgloss.NewStyle().Foreground(primary).Bold(true).Margin(1, 0, 0, 0)
)

// printer writes styled output, or plain text when w is not a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) *printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &printer{w: w, styled: styled}
}

func (p *printer) render(style lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return style.Render(text)
}

// field prints an aligned "label: value" line.
func (p *printer) field(label, value string) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(labelStyle, fmt.Sprintf("%-18s", label+":")), p.render(valueStyle, value))
}

func (p *printer) section(title string) {
	if p.styled {
		fmt.Fprintln(p.w, sectionStyle.Render(title))
		return
	}
	fmt.Fprintf(p.w, "\n%s\n", title)
}

func (p *printer) ok(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(successStyle, "✓ "+fmt.Sprintf(format, args...)))
}

func (p *printer) fail(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(errorStyle, "✗ "+fmt.Sprintf(format, args...)))
}

func (p *printer) note(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(mutedStyle, fmt.Sprintf(format, args...)))
}
