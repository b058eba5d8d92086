package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/ember/foundation/core/error"
)

const (
	iconOK    = "✓"
	iconError = "✗"
)

var (
	colorPrimary = lipgloss.Color("#FF8C42")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#E5E7EB")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Width(14)

	caretStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// renderError formats an error for the terminal. Platform errors carrying
// line and column details are rendered with their position.
func renderError(err error) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Fehler: "))
	b.WriteString(err.Error())

	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		details := mdwErr.Details()
		if line, ok := details["line"]; ok {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  (Zeile %v, Spalte %v)", line, details["column"])))
		}
		if expected, ok := details["expected"].([]string); ok && len(expected) > 0 {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render("  erwartet: " + strings.Join(expected, ", ")))
		}
	}
	return b.String()
}

// renderSourceError renders an error followed by the offending source
// line and a caret under the reported column
func renderSourceError(err error, source string) string {
	out := renderError(err)

	var mdwErr *mdwerror.Error
	if !errors.As(err, &mdwErr) {
		return out
	}
	line, lok := mdwErr.Details()["line"].(int)
	column, cok := mdwErr.Details()["column"].(int)
	if !lok || !cok || line < 1 {
		return out
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return out
	}
	text := strings.TrimRight(lines[line-1], "\r")
	prefix := fmt.Sprintf("%4d | ", line)

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(prefix))
	b.WriteString(text)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", len(prefix)))
	b.WriteString(caretPadding(text, column))
	b.WriteString(caretStyle.Render("^"))
	return b.String()
}

// caretPadding returns the indentation that places a caret under a
// 1-based column of text. Tabs are kept so the caret lines up.
func caretPadding(text string, column int) string {
	n := column - 1
	if n < 0 {
		n = 0
	}
	if n > len(text) {
		n = len(text)
	}
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, text[:n])
}

func renderKeyValue(key string, value interface{}) string {
	return labelStyle.Render(key+":") + " " + fmt.Sprint(value)
}
