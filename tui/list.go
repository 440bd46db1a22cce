package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mickamy/weechat-tui/message"
)

const sidebarWidth = 24

var (
	currentBufferStyle  = lipgloss.NewStyle().Bold(true)
	privateCountStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	highlightCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	scrollingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderColor         = lipgloss.Color("240")
)

func (m Model) render() string {
	bodyHeight := max(m.height-3, 3) // 3 = composer row + borders

	sidebar := m.renderSidebar(bodyHeight)
	messages := m.renderMessages(bodyHeight, max(m.width-sidebarWidth-1, 20))

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, messages)
	composerLine := m.renderComposer()

	footer := "enter: send  tab: complete  ctrl+p/n: buffer  up: scrollback  alt+<shortcut>: jump  alt+c: yank  ctrl+c: quit"
	if m.status != "" {
		footer = m.status + "  " + footer
	}

	return strings.Join([]string{body, composerLine, footer}, "\n")
}

func (m Model) renderSidebar(height int) string {
	bufs := m.session.GetBuffers()
	hotlist := m.session.Hotlist()
	current := m.session.GetCurrentBuffer()

	var lines []string
	for i, b := range bufs {
		shortcut := byte(' ')
		if i < len(shortcutChars) {
			shortcut = shortcutChars[i]
		}
		name := b.FullName
		if b.ShortName != nil {
			name = *b.ShortName
		}

		badge := hotlistBadge(hotlist[b.PtrBuffer])
		line := fmt.Sprintf("%c %s%s", shortcut, name, badge)

		if b.FullName == current {
			line = currentBufferStyle.Render("▶ " + name + badge)
		}
		lines = append(lines, padRight(line, sidebarWidth-2))
	}

	content := strings.Join(lines, "\n")
	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(content)
}

// hotlistBadge renders the (message, private, highlight) counters, skipping
// the low-priority counter the way the original terminal renderer does —
// it carries no user-facing signal of its own.
func hotlistBadge(counts [4]int32) string {
	var parts []string
	if counts[1] > 0 {
		parts = append(parts, fmt.Sprintf("%d", counts[1]))
	}
	if counts[2] > 0 {
		parts = append(parts, privateCountStyle.Render(fmt.Sprintf("%d", counts[2])))
	}
	if counts[3] > 0 {
		parts = append(parts, highlightCountStyle.Render(fmt.Sprintf("%d", counts[3])))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "/") + ")"
}

func (m Model) renderMessages(height, width int) string {
	lines := m.session.GetLines()

	start := 0
	if len(lines) > height {
		start = len(lines) - height
	}

	var rendered []string
	for _, l := range lines[start:] {
		rendered = append(rendered, renderLine(l, width))
	}
	if m.session.IsScrolling() {
		rendered = append(rendered, scrollingStyle.Render("-- scrolling --"))
	}

	content := strings.Join(rendered, "\n")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(content)
}

func renderLine(l message.Line, width int) string {
	prefix := ""
	if l.Prefix != nil {
		prefix = *l.Prefix + " "
	}
	line := prefix + l.Message
	if l.Highlight {
		return lipgloss.NewStyle().Bold(true).Render(line)
	}
	return line
}

func (m Model) renderComposer() string {
	return "> " + renderInputWithCursor(m.composer.text(), m.composer.cursor)
}
