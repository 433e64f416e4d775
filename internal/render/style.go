// Package render turns tracker entities into terminal output: colored
// summaries, oneline and tabular listings, humanized timestamps, and
// the pager plumbing.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitforge/git-issue/internal/tracker"
)

// ansi maps palette entries onto the 16-color ANSI slots. The default
// entry is absent on purpose: it renders unstyled.
var ansi = map[tracker.PaletteColor]string{
	tracker.ColorBlue:          "4",
	tracker.ColorGreen:         "2",
	tracker.ColorCyan:          "6",
	tracker.ColorRed:           "1",
	tracker.ColorMagenta:       "5",
	tracker.ColorYellow:        "3",
	tracker.ColorWhite:         "7",
	tracker.ColorBrightBlack:   "8",
	tracker.ColorBrightRed:     "9",
	tracker.ColorBrightGreen:   "10",
	tracker.ColorBrightYellow:  "11",
	tracker.ColorBrightBlue:    "12",
	tracker.ColorBrightMagenta: "13",
	tracker.ColorBrightCyan:    "14",
	tracker.ColorBrightWhite:   "15",
}

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	createdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	closedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Paint renders text in the given palette color; the default color
// passes text through unstyled.
func Paint(color tracker.PaletteColor, text string) string {
	slot, ok := ansi[color]
	if !ok {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(slot)).Render(text)
}

// Heading renders section headings in the accent color.
func Heading(text string) string {
	return headingStyle.Render(text)
}

// Errorf writes a formatted message to w under a colored error prefix.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("error:"), fmt.Sprintf(format, args...))
}

// Warnf writes a formatted message to w under a colored warning prefix.
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Render("warning:"), fmt.Sprintf(format, args...))
}

// Actioned renders the completion line for a mutation, e.g.
// "Closed issue #12: https://...".
func Actioned(action string, number tracker.Number, url string) string {
	var styled string
	switch action {
	case "Created", "Reopened":
		styled = createdStyle.Render(action)
	case "Closed":
		styled = closedStyle.Render(action)
	case "Edited":
		styled = headingStyle.Render(action)
	default:
		styled = action
	}
	return fmt.Sprintf("%s issue %s: %s", styled, number, url)
}
