package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/weechat-tui/message"
)

// composer is a single-line (with embedded newlines) text input, cursor
// position tracked in runes. Alt+Enter inserts a literal newline; on submit
// each newline-delimited line is sent to the relay as a separate command.
type composer struct {
	data   []rune
	cursor int
}

func newComposer() composer {
	return composer{}
}

func (c composer) text() string { return string(c.data) }

// lines splits the composed text on newlines, the way multi-line input is
// flattened into one "input" command per line on submit.
func (c composer) lines() []string {
	return strings.Split(c.text(), "\n")
}

func (c composer) handleKey(msg tea.KeyMsg) composer {
	switch msg.String() {
	case "alt+enter":
		return c.insert([]rune{'\n'})
	case "backspace":
		return c.backspace()
	case "left":
		if c.cursor > 0 {
			c.cursor--
		}
		return c
	case "right":
		if c.cursor < len(c.data) {
			c.cursor++
		}
		return c
	case "ctrl+u":
		return composer{}
	}

	if len(msg.Runes) == 0 {
		return c
	}
	return c.insert(msg.Runes)
}

func (c composer) insert(r []rune) composer {
	data := make([]rune, 0, len(c.data)+len(r))
	data = append(data, c.data[:c.cursor]...)
	data = append(data, r...)
	data = append(data, c.data[c.cursor:]...)
	return composer{data: data, cursor: c.cursor + len(r)}
}

func (c composer) backspace() composer {
	if c.cursor == 0 {
		return c
	}
	data := make([]rune, 0, len(c.data)-1)
	data = append(data, c.data[:c.cursor-1]...)
	data = append(data, c.data[c.cursor:]...)
	return composer{data: data, cursor: c.cursor - 1}
}

// applyCompletion splices the server's first suggestion into the composer
// at [min(PosStart,PosEnd), min(len,PosEnd+1)), appending a space when the
// server requests one.
func (c composer) applyCompletion(comp *message.CompletionData) composer {
	if len(comp.List) == 0 {
		return c
	}
	repl := []rune(comp.List[0])
	if comp.AddSpace {
		repl = append(repl, ' ')
	}

	start := int(comp.PosStart)
	end := int(comp.PosEnd)
	if end < start {
		start = end
	}
	if start < 0 {
		start = 0
	}
	if start > len(c.data) {
		start = len(c.data)
	}
	end++
	if end > len(c.data) {
		end = len(c.data)
	}
	if end < start {
		end = start
	}

	data := make([]rune, 0, start+len(repl)+(len(c.data)-end))
	data = append(data, c.data[:start]...)
	data = append(data, repl...)
	data = append(data, c.data[end:]...)

	return composer{data: data, cursor: start + len(repl)}
}
