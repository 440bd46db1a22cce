// Package tui renders a connected relay.Session as a terminal UI. It is a
// thin external collaborator: every piece of session state it reads comes
// through the session's own public operations, and every user action it
// issues goes back through them (SwitchCurrentBuffer, ScrollBack, Send,
// Close) — the renderer owns no relay state of its own beyond what's needed
// to draw a frame.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/weechat-tui/clipboard"
	"github.com/mickamy/weechat-tui/relay"
)

// shortcutChars assigns a one-key jump shortcut to each buffer by list
// position, in the same order the relay's own buffer list is rendered.
const shortcutChars = "0123456789qwertyuiop"

// Model is the Bubble Tea model driving one connected session.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *relay.Session

	width, height int
	err           error
	status        string // transient footer message (e.g. "copied")

	composer composer
}

// turnMsg carries the outcome of one relay.Session.Run call.
type turnMsg struct{ err error }

// New creates a Model driving session until ctx is done.
func New(ctx context.Context, cancel context.CancelFunc, session *relay.Session) Model {
	return Model{
		ctx:      ctx,
		cancel:   cancel,
		session:  session,
		composer: newComposer(),
	}
}

// Init starts the session's event loop.
func (m Model) Init() tea.Cmd {
	return runTurn(m.ctx, m.session)
}

func runTurn(ctx context.Context, session *relay.Session) tea.Cmd {
	return func() tea.Msg {
		err := session.Run(ctx)
		return turnMsg{err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case turnMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.applyPendingCompletion()
		m.applyPendingNotifications()
		return m, runTurn(m.ctx, m.session)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.err != nil {
		return friendlyError(m.err, m.width)
	}
	return m.render()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.session.Close()
		m.cancel()
		return m, tea.Quit
	case "ctrl+p":
		return m.switchBufferRelative(-1), nil
	case "ctrl+n":
		return m.switchBufferRelative(1), nil
	case "up":
		m.session.ScrollBack(10)
		return m, nil
	case "tab":
		m.requestCompletion()
		return m, nil
	case "enter":
		return m.submitComposer(), nil
	case "alt+c":
		return m.yankCurrentLine(), nil
	}

	if shortcut, ok := parseAltShortcut(msg.String()); ok {
		return m.switchBufferByShortcut(shortcut), nil
	}

	m.composer = m.composer.handleKey(msg)
	return m, nil
}

func parseAltShortcut(key string) (rune, bool) {
	const prefix = "alt+"
	if len(key) != len(prefix)+1 || key[:len(prefix)] != prefix {
		return 0, false
	}
	return rune(key[len(prefix)]), true
}

func (m Model) switchBufferRelative(delta int) Model {
	bufs := m.session.GetBuffers()
	if len(bufs) == 0 {
		return m
	}
	idx := 0
	for i, b := range bufs {
		if b.FullName == m.session.GetCurrentBuffer() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(bufs)) % len(bufs)
	m.session.SwitchCurrentBuffer(bufs[idx].FullName)
	return m
}

func (m Model) switchBufferByShortcut(shortcut rune) Model {
	bufs := m.session.GetBuffers()
	for i, c := range shortcutChars {
		if c != shortcut {
			continue
		}
		if i < len(bufs) {
			m.session.SwitchCurrentBuffer(bufs[i].FullName)
		}
		break
	}
	return m
}

// submitComposer sends each composed line as a separate input command —
// the relay protocol has no way to embed a literal newline in one command.
func (m Model) submitComposer() Model {
	ptr := m.session.PtrForCurrentBuffer()
	if ptr == "" {
		return m
	}
	lines := m.composer.lines()
	for _, line := range lines {
		if line == "" {
			continue
		}
		m.session.Send("", fmt.Sprintf("input 0x%s %s", ptr, line))
	}
	m.composer = newComposer()
	return m
}

func (m Model) requestCompletion() {
	ptr := m.session.PtrForCurrentBuffer()
	if ptr == "" {
		return
	}
	pos := m.composer.cursor
	m.session.Send("completion", fmt.Sprintf("completion 0x%s %d %s", ptr, pos, m.composer.text()))
}

// applyPendingCompletion consumes any completion suggestion the session
// received since the last turn and splices it into the composer.
func (m *Model) applyPendingCompletion() {
	c := m.session.ConsumeCompletion()
	if c == nil {
		return
	}
	m.composer = m.composer.applyCompletion(c)
}

// applyPendingNotifications consumes the session's queued notify.Gate
// decisions. Raising or dismissing an actual desktop notification is an
// external collaborator out of scope here; the renderer's realization of it
// is a transient footer message.
func (m *Model) applyPendingNotifications() {
	events := m.session.ConsumeNotifications()
	if len(events) == 0 {
		return
	}
	last := events[len(events)-1]
	name := m.bufferNameForPtr(last.Buffer)
	if last.Result.ShouldNotify {
		m.status = fmt.Sprintf("activity in %s", name)
	} else if last.Result.ShouldClear {
		m.status = ""
	}
}

func (m Model) bufferNameForPtr(ptr string) string {
	for _, b := range m.session.GetBuffers() {
		if b.PtrBuffer == ptr {
			return b.FullName
		}
	}
	return ptr
}

func (m Model) yankCurrentLine() Model {
	lines := m.session.GetLines()
	if len(lines) == 0 {
		return m
	}
	last := lines[len(lines)-1]
	if err := clipboard.Copy(m.ctx, last.Message); err != nil {
		m.status = "copy failed: " + err.Error()
	} else {
		m.status = "copied"
	}
	return m
}
