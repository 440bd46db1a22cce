package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// renderInputWithCursor renders text with a block cursor at the given rune
// position, matching the composer's own rune-indexed cursor.
func renderInputWithCursor(text string, cursorPos int) string {
	runes := []rune(text)
	if cursorPos >= len(runes) {
		return text + "█"
	}
	return string(runes[:cursorPos]) + "█" + string(runes[cursorPos:])
}

func friendlyError(err error, width int) string {
	msg := err.Error()
	var text string
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "Connection unexpectedly closed"):
		text = "Could not reach the relay.\n\nError: " + msg
	default:
		text = "Error: " + msg
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
