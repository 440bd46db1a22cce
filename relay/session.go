// Package relay implements the single-owner session engine that drives a
// connected WeeChat relay: buffers, hotlist, line cache, backlog/scrollback
// paging, and the cooperative event loop multiplexing the socket, redraw
// signals, and keyboard input.
package relay

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/mickamy/weechat-tui/message"
	"github.com/mickamy/weechat-tui/notify"
)

// bufferCacheSize caps how many lines the session keeps for the current
// buffer; older lines are dropped when a pushed line would exceed it.
const bufferCacheSize = 100

// coreBuffer is the relay's own always-present buffer, auto-selected when
// no current buffer has been chosen yet.
const coreBuffer = "core.weechat"

// notifyCooldown is the minimum time between repeat desktop-notification
// decisions for the same buffer.
const notifyCooldown = 10 * time.Second

// Session owns all client-visible connection state. It is not safe for
// concurrent use: every field is touched only from the goroutine running
// Run, by design (see the cooperative event-loop model this package
// implements).
type Session struct {
	conn net.Conn

	buffers       []message.Buffer
	hotlist       map[string][4]int32 // keyed by ptr_buffer
	currentBuffer string              // full_name; "" means unset

	lineCache   []message.Line
	isScrolling bool

	pendingCompletion    *message.CompletionData
	notifyGate           *notify.Gate
	pendingNotifications []notify.Event

	sendQueue chan string
	frames    <-chan frameOrErr

	nextID uint64
	mu     sync.Mutex // guards nextID only
}

func newSession(conn net.Conn, frames <-chan frameOrErr) *Session {
	return &Session{
		conn:       conn,
		hotlist:    make(map[string][4]int32),
		notifyGate: notify.NewGate(notifyCooldown),
		sendQueue:  make(chan string, 256),
		frames:     frames,
	}
}

// Buffers returns the current buffer list.
func (s *Session) Buffers() []message.Buffer { return s.buffers }

// GetBuffers is an alias for Buffers, matching the relay's own operation name.
func (s *Session) GetBuffers() []message.Buffer { return s.buffers }

// Hotlist returns the current per-buffer hotlist counters, keyed by ptr_buffer.
func (s *Session) Hotlist() map[string][4]int32 { return s.hotlist }

// GetCurrentBuffer returns the full name of the currently selected buffer,
// or "" if none has been selected yet.
func (s *Session) GetCurrentBuffer() string { return s.currentBuffer }

// PtrForCurrentBuffer returns the current buffer's pointer, or "" if it
// isn't known yet (e.g. before the buffer list has arrived).
func (s *Session) PtrForCurrentBuffer() string {
	return s.ptrForBuffer(s.currentBuffer)
}

// GetLines returns the cached lines for the current buffer, oldest first.
func (s *Session) GetLines() []message.Line { return s.lineCache }

// IsScrolling reports whether the cache currently holds a scrollback page
// rather than the live backlog.
func (s *Session) IsScrolling() bool { return s.isScrolling }

// ConsumeCompletion returns and clears the pending completion suggestion, if
// any — a write-once mailbox the renderer drains once per keypress.
func (s *Session) ConsumeCompletion() *message.CompletionData {
	c := s.pendingCompletion
	s.pendingCompletion = nil
	return c
}

// ConsumeNotifications returns and clears any desktop-notification decisions
// queued since the last call — the same write-once mailbox shape as
// ConsumeCompletion, drained once per turn by the renderer, which owns
// actually raising or dismissing a notification.
func (s *Session) ConsumeNotifications() []notify.Event {
	out := s.pendingNotifications
	s.pendingNotifications = nil
	return out
}

// genID produces a small increasing id ("c1", "c2", ...). Nothing in this
// package calls it: requests are tagged with fixed ids naming their reply
// kind (gui_buffers, backlog_lines, ...) or sent without an id.
func (s *Session) genID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("c%d", s.nextID)
}

// Send queues a command to be written to the relay as "(id) command\n". An
// empty id omits the parenthesized prefix.
func (s *Session) Send(id, command string) {
	var line string
	if id == "" {
		line = command + "\n"
	} else {
		line = fmt.Sprintf("(%s) %s\n", id, command)
	}
	select {
	case s.sendQueue <- line:
	default:
		// Outbound queue is unbounded in spirit but backed by a bounded
		// channel; a full queue means the server has stopped reading, which
		// Run's write loop will surface as a connection error shortly.
		go func() { s.sendQueue <- line }()
	}
}

// RequestBuffers issues the standard request for the full buffer list,
// tagged so the response routes back through the gui_buffers dispatch path.
// Callers normally never need this directly — the session re-issues it
// itself on buffer_opened/closing/renamed/title_changed — except once at
// startup to seed the initial list.
func (s *Session) RequestBuffers() { s.buffersRequest() }

// RequestHotlist issues the standard request for the current hotlist, for
// the same startup-seeding reason as RequestBuffers.
func (s *Session) RequestHotlist() { s.hotlistRequest() }

func (s *Session) buffersRequest() {
	s.Send("gui_buffers", "hdata buffer:gui_buffers(*) number,full_name,short_name,title")
}

func (s *Session) hotlistRequest() {
	s.Send("gui_hotlist", "hdata hotlist:gui_hotlist(*) priority,buffer,count_00,count_01,count_02,count_03")
}

// SwitchCurrentBuffer selects buf (by full name) as current and requests its
// backlog, which will clear and repopulate the line cache via the
// backlog_lines dispatch path once the response arrives.
func (s *Session) SwitchCurrentBuffer(fullName string) {
	s.currentBuffer = fullName
	ptr := s.ptrForBuffer(fullName)
	if ptr == "" {
		return
	}
	s.Send("backlog_lines", fmt.Sprintf(
		"hdata buffer:0x%s/own_lines/last_line(-%d)/data", ptr, bufferCacheSize))
}

// ScrollBack requests a page of scrollback anchored on the nth-from-end
// cached line (clamped to the oldest line available). If no line is cached
// yet for the current buffer, it falls back to re-requesting the backlog
// the same way SwitchCurrentBuffer does.
func (s *Session) ScrollBack(n int) {
	ptr := s.ptrForBuffer(s.currentBuffer)
	if ptr == "" {
		return
	}
	anchor := s.nthFromEndCachedLinePtr(n)
	if anchor == "" {
		s.Send("backlog_lines", fmt.Sprintf(
			"hdata buffer:0x%s/own_lines/last_line(-%d)/data", ptr, bufferCacheSize))
		return
	}
	s.Send("scrollback_lines", fmt.Sprintf(
		"hdata line:0x%s(-%d)/data", anchor, bufferCacheSize))
}

func (s *Session) nthFromEndCachedLinePtr(n int) string {
	if len(s.lineCache) == 0 {
		return ""
	}
	idx := len(s.lineCache) - (1 + n)
	if idx < 0 {
		idx = 0
	}
	p := s.lineCache[idx].PtrLine
	if p == nil {
		return ""
	}
	return *p
}

func (s *Session) ptrForBuffer(fullName string) string {
	for _, b := range s.buffers {
		if b.FullName == fullName {
			return b.PtrBuffer
		}
	}
	return ""
}

// Close terminates the session, writing the quit command straight to the
// connection (not through the send queue) and then closing the connection.
func (s *Session) Close() error {
	_, werr := fmt.Fprint(s.conn, "(quit) quit\n")
	if err := s.conn.Close(); err != nil {
		return err
	}
	if werr != nil {
		return fmt.Errorf("relay: write quit: %w", werr)
	}
	return nil
}
