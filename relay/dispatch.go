package relay

import (
	"fmt"
	"log"
	"time"

	"github.com/mickamy/weechat-tui/color"
	"github.com/mickamy/weechat-tui/message"
	"github.com/mickamy/weechat-tui/notify"
	"github.com/mickamy/weechat-tui/wire"
)

// handleFrame decodes one frame's body by its id and applies the resulting
// state transition to the session. Unknown ids are not an error: they are
// logged and skipped, per the relay's own tolerance for commands a client
// doesn't recognize.
func (s *Session) handleFrame(f *wire.Frame) error {
	kind := message.KindFromID(f.ID)

	switch kind {
	case "gui_buffers":
		v, err := f.ReadValue()
		if err != nil {
			return fmt.Errorf("relay: decode gui_buffers: %w", err)
		}
		bufs, err := message.ParseBuffers(v)
		if err != nil {
			return fmt.Errorf("relay: parse gui_buffers: %w", err)
		}
		s.applyBuffers(bufs)

	case "gui_hotlist":
		v, err := f.ReadValue()
		if err != nil {
			return fmt.Errorf("relay: decode gui_hotlist: %w", err)
		}
		entries, err := message.ParseHotlist(v)
		if err != nil {
			return fmt.Errorf("relay: parse gui_hotlist: %w", err)
		}
		s.applyHotlist(entries)

	case "backlog_lines":
		v, err := f.ReadValue()
		if err != nil {
			return fmt.Errorf("relay: decode backlog_lines: %w", err)
		}
		lines, err := message.ParseLines(v)
		if err != nil {
			return fmt.Errorf("relay: parse backlog_lines: %w", err)
		}
		s.applyBacklogLines(lines, false)

	case "scrollback_lines":
		v, err := f.ReadValue()
		if err != nil {
			return fmt.Errorf("relay: decode scrollback_lines: %w", err)
		}
		lines, err := message.ParseLines(v)
		if err != nil {
			return fmt.Errorf("relay: parse scrollback_lines: %w", err)
		}
		s.applyBacklogLines(lines, true)

	case "buffer_line_added":
		v, err := f.ReadValue()
		if err != nil {
			return fmt.Errorf("relay: decode buffer_line_added: %w", err)
		}
		lines, err := message.ParseLines(v)
		if err != nil {
			return fmt.Errorf("relay: parse buffer_line_added: %w", err)
		}
		for _, l := range lines {
			s.applyLineAdded(l)
		}

	case "buffer_opened", "buffer_closing", "buffer_renamed", "buffer_title_changed":
		s.applyBufferEvent()

	case "completion":
		v, err := f.ReadValue()
		if err != nil {
			return fmt.Errorf("relay: decode completion: %w", err)
		}
		comp, err := message.ParseCompletion(v)
		if err != nil {
			return fmt.Errorf("relay: parse completion: %w", err)
		}
		s.applyCompletion(comp)

	default:
		log.Printf("relay: unhandled message id %q", f.ID)
	}

	return nil
}

// applyBuffers replaces the buffer list and zeroes the hotlist, per the
// protocol's guarantee that a fresh gui_buffers response supersedes any
// stale counters.
func (s *Session) applyBuffers(bufs []message.Buffer) {
	s.buffers = bufs
	s.hotlist = make(map[string][4]int32)
}

// applyHotlist zeroes then repopulates the hotlist from a fresh snapshot,
// auto-selecting core.weechat as current if nothing has been selected yet,
// and feeding each buffer's private/highlight counts through the
// notification gate.
func (s *Session) applyHotlist(entries []message.HotlistEntry) {
	s.hotlist = make(map[string][4]int32)
	for _, e := range entries {
		s.hotlist[e.Buffer] = e.Count
		s.observeNotify(e.Buffer, e.Count)
	}
	for i := range s.buffers {
		s.buffers[i].Hotlist = s.hotlist[s.buffers[i].PtrBuffer]
	}
	if s.currentBuffer == "" {
		s.currentBuffer = coreBuffer
	}
}

// observeNotify feeds a buffer's current (private, highlight) counts through
// the session's notify.Gate and queues the decision for the renderer.
func (s *Session) observeNotify(buffer string, counts [4]int32) {
	r := s.notifyGate.Observe(buffer, counts[2], counts[3], time.Now())
	if r.ShouldNotify || r.ShouldClear {
		s.pendingNotifications = append(s.pendingNotifications, notify.Event{Buffer: buffer, Result: r})
	}
}

// applyBacklogLines replaces the line cache with a fresh page. The server
// sends lines newest-first; the cache is kept oldest-first so callers can
// render top-to-bottom directly.
//
// For a true backlog (scrolling=false) the cache is marked non-scrolling and,
// if any lines arrived, the session marks the buffer read and refreshes the
// hotlist. A scrollback page never marks anything read.
func (s *Session) applyBacklogLines(lines []message.Line, scrolling bool) {
	s.lineCache = make([]message.Line, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		l.Message = color.Strip(l.Message)
		l.Prefix = stripPrefix(l.Prefix)
		s.lineCache = append(s.lineCache, l)
	}
	s.isScrolling = scrolling

	if !scrolling && len(lines) > 0 {
		ptr := s.ptrForBuffer(s.currentBuffer)
		if ptr != "" {
			s.Send("", fmt.Sprintf("input 0x%s /buffer set hotlist -1", ptr))
		}
		s.hotlistRequest()
	}
}

// applyLineAdded appends a newly-pushed line to the cache when it belongs to
// the current, non-scrolling buffer; otherwise it increments that buffer's
// hotlist counter by its notify level. notify_level values outside {0..3}
// are ignored for hotlist purposes but the line still lands in the cache
// when it's for the current buffer — notify level only gates the counters.
func (s *Session) applyLineAdded(l message.Line) {
	l.Message = color.Strip(l.Message)
	l.Prefix = stripPrefix(l.Prefix)

	if l.Buffer == s.ptrForBuffer(s.currentBuffer) && !s.isScrolling {
		s.lineCache = append(s.lineCache, l)
		if len(s.lineCache) > bufferCacheSize {
			s.lineCache = s.lineCache[len(s.lineCache)-bufferCacheSize:]
		}
		return
	}

	if l.NotifyLevel < 0 || l.NotifyLevel > 3 {
		return
	}
	counts := s.hotlist[l.Buffer]
	counts[l.NotifyLevel]++
	s.hotlist[l.Buffer] = counts
	s.observeNotify(l.Buffer, counts)
}

// applyBufferEvent handles _buffer_opened/_closing/_renamed/_title_changed,
// all of which invalidate the cached buffer list and hotlist; the session
// re-requests both rather than attempting to patch them incrementally.
func (s *Session) applyBufferEvent() {
	s.buffersRequest()
	s.hotlistRequest()
}

// applyCompletion stores the (single) completion suggestion for consumption
// by the renderer.
func (s *Session) applyCompletion(c *message.CompletionData) {
	s.pendingCompletion = c
}

// stripPrefix strips color codes from an optional prefix, preserving nil.
func stripPrefix(p *string) *string {
	if p == nil {
		return nil
	}
	stripped := color.Strip(*p)
	return &stripped
}
