package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#7A8C93")
)

// Styles are the CLI text styles. lipgloss drops colors automatically when
// output is not a terminal.
var Styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Success: lipgloss.NewStyle().Foreground(colorAccent),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, Styles.Title.Render(title))
}

func printSaved(w io.Writer, path, what string) {
	fmt.Fprintf(w, "%s %s %s\n", Styles.Success.Render("✓"), path, Styles.Muted.Render("("+what+")"))
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, Styles.Warning.Render("⚠ "+msg))
}
