package main

import (
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/CartoonFan/loudgain/internal/scan"
)

// statusPrinter writes progress events as [✔]/[✘] status lines.
type statusPrinter struct {
	w    io.Writer
	ok   lipgloss.Style
	fail lipgloss.Style
}

func newStatusPrinter(w io.Writer) *statusPrinter {
	r := lipgloss.NewRenderer(w)
	return &statusPrinter{
		w:    w,
		ok:   r.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true),
		fail: r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
	}
}

// Print writes one event. Info events get a check mark, everything else
// a cross. Messages are often error strings, so the first letter is
// upper-cased.
func (p *statusPrinter) Print(event scan.ProgressEvent) {
	mark := p.ok.Render("[✔]")
	if event.Level != scan.LevelInfo {
		mark = p.fail.Render("[✘]")
	}
	fmt.Fprintf(p.w, "%s %s\n", mark, capitalize(event.Message))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
