package message_test

import (
	"testing"

	"github.com/mickamy/weechat-tui/message"
	"github.com/mickamy/weechat-tui/wire"
)

func strPtr(s string) *string { return &s }

func TestParseInfo(t *testing.T) {
	t.Parallel()
	got, err := message.ParseInfo([2]*string{strPtr("version"), strPtr("2.9")})
	if err != nil {
		t.Fatalf("ParseInfo: %v", err)
	}
	if got.Name != "version" || got.Value == nil || *got.Value != "2.9" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseInfoNullValue(t *testing.T) {
	t.Parallel()
	got, err := message.ParseInfo([2]*string{strPtr("version"), nil})
	if err != nil {
		t.Fatalf("ParseInfo: %v", err)
	}
	if got.Value != nil {
		t.Fatalf("got %v, want nil value", got.Value)
	}
}

func TestParseInfoWrongShape(t *testing.T) {
	t.Parallel()
	_, err := message.ParseInfo("not an inf")
	if err == nil {
		t.Fatal("expected ShapeMismatch error")
	}
	var werr *wire.Error
	if we, ok := err.(*wire.Error); ok {
		werr = we
	}
	if werr == nil || werr.Kind != wire.ShapeMismatch {
		t.Fatalf("got %v, want ShapeMismatch", err)
	}
}

func TestParseBuffers(t *testing.T) {
	t.Parallel()
	hd := &wire.HData{
		HPath:          "bufs",
		PointerColumns: []string{"ptr_bufs"},
		Columns: []wire.HDataColumn{
			{Name: "number", Type: "int"},
			{Name: "full_name", Type: "str"},
		},
		Rows: []map[string]any{
			{"ptr_bufs": strPtr("123"), "number": int32(1), "full_name": strPtr("core.weechat")},
			{"ptr_bufs": strPtr("567"), "number": int32(2), "full_name": strPtr("potato")},
		},
	}
	bufs, err := message.ParseBuffers(hd)
	if err != nil {
		t.Fatalf("ParseBuffers: %v", err)
	}
	if len(bufs) != 2 {
		t.Fatalf("got %d buffers, want 2", len(bufs))
	}
	if bufs[0].PtrBuffer != "123" || bufs[0].Number != 1 || bufs[0].FullName != "core.weechat" {
		t.Fatalf("got %+v", bufs[0])
	}
	if bufs[1].FullName != "potato" {
		t.Fatalf("got %+v", bufs[1])
	}
}

func TestParseLines(t *testing.T) {
	t.Parallel()
	hd := &wire.HData{
		Rows: []map[string]any{
			{
				"ptr_line":      strPtr("abc"),
				"buffer":        strPtr("111"),
				"date":          "1321993456",
				"displayed":     int8(1),
				"highlight":     int8(0),
				"prefix":        strPtr("nick"),
				"message":       strPtr("hello"),
				"notify_level":  int8(2),
			},
		},
	}
	lines, err := message.ParseLines(hd)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	l := lines[0]
	if l.Buffer != "111" || l.Date != "1321993456" || !l.Displayed || l.Highlight {
		t.Fatalf("got %+v", l)
	}
	if l.NotifyLevel != 2 || l.Message != "hello" {
		t.Fatalf("got %+v", l)
	}
}

func TestParseCompletionKeepsFirstRowOnly(t *testing.T) {
	t.Parallel()
	hd := &wire.HData{
		Rows: []map[string]any{
			{
				"context":   strPtr("ctx"),
				"base_word": strPtr("wee"),
				"pos_start": int32(3),
				"pos_end":   int32(6),
				"add_space": int8(1),
				"list":      []any{strPtr("weechat"), strPtr("weechat-relay")},
			},
			{
				"context":   strPtr("ctx2"),
				"base_word": strPtr("ignored"),
				"pos_start": int32(0),
				"pos_end":   int32(0),
				"add_space": int8(0),
				"list":      []any{},
			},
		},
	}
	comp, err := message.ParseCompletion(hd)
	if err != nil {
		t.Fatalf("ParseCompletion: %v", err)
	}
	if comp.Context != "ctx" || comp.BaseWord != "wee" {
		t.Fatalf("got %+v, want first row only", comp)
	}
	if !comp.AddSpace || len(comp.List) != 2 {
		t.Fatalf("got %+v", comp)
	}
}

func TestKindFromID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		id   string
		want string
	}{
		{"gui_buffers", "gui_buffers"},
		{"_buffer_line_added", "buffer_line_added"},
		{"_buffer_opened", "buffer_opened"},
		{"", "unknown"},
	}
	for _, tc := range tests {
		if got := message.KindFromID(tc.id); got != tc.want {
			t.Fatalf("KindFromID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}
