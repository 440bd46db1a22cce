package color_test

import (
	"testing"

	"github.com/mickamy/weechat-tui/color"
)

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"bare code at start", "\x1904foobar"},
		{"bare code mid-string", "foo\x1901bar"},
		{"foreground marker plus bare code", "foo\x19F01bar"},
		{"background marker plus bare code", "foo\x19B22bar"},
		{"foreground marker plus extended code", "foo\x19F@12345bar"},
		{"extended code comma extended code", "foo\x19@12345,23bar"},
		{"two extended codes comma separated", "foo\x19@12345,@12345bar"},
		{"two extended codes tilde separated", "foo\x19@12345~@12345bar"},
		{"attribute marker plus tilde separated extended codes", "foo\x19*@12345~@12345bar"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := color.Strip(tc.in)
			if got != "foobar" {
				t.Fatalf("Strip(%q) = %q, want %q", tc.in, got, "foobar")
			}
		})
	}
}

func TestStripLeavesPlainTextUntouched(t *testing.T) {
	t.Parallel()
	got := color.Strip("hello world")
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestStripHandlesResetByte(t *testing.T) {
	t.Parallel()
	got := color.Strip("a\x1cb")
	if got != "ab" {
		t.Fatalf("got %q, want ab", got)
	}
}
