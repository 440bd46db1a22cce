// Package color strips WeeChat's in-band text-formatting escapes out of
// message and prefix strings. It implements only WeeChat's own two escape
// forms (reset and attribute); ANSI terminal escapes are a renderer concern
// and are left untouched.
package color

import "strings"

const (
	resetByte     = 0x1c
	attributeByte = 0x19
)

// Strip removes WeeChat's color/attribute escape sequences from s, returning
// the plain text a user would read.
func Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch r {
		case resetByte:
			i++
		case attributeByte:
			i = skipAttribute(runes, i+1)
		default:
			b.WriteRune(r)
			i++
		}
	}
	return b.String()
}

// skipAttribute consumes one WeeChat attribute escape body starting at i
// (just past the 0x19 marker) and returns the index of the next unconsumed
// rune. The grammar: optional F/B (foreground/background marker), optional
// one of "*!/_|" (bold/reverse/italic/underline/keep), then either an
// "@" + 5 hex-ish characters color code or a bare 2-character color code,
// optionally followed by a "," or "~" separator and a second color code of
// either form.
func skipAttribute(runes []rune, i int) int {
	i = skipOptional(runes, i, 'F', 'B')
	i = skipOptionalSet(runes, i, "*!/_|")
	i = skipColorCode(runes, i)
	if i < len(runes) && (runes[i] == ',' || runes[i] == '~') {
		i++
		i = skipColorCode(runes, i)
	}
	return i
}

func skipOptional(runes []rune, i int, choices ...rune) int {
	if i >= len(runes) {
		return i
	}
	for _, c := range choices {
		if runes[i] == c {
			return i + 1
		}
	}
	return i
}

func skipOptionalSet(runes []rune, i int, set string) int {
	if i >= len(runes) {
		return i
	}
	if strings.ContainsRune(set, runes[i]) {
		return i + 1
	}
	return i
}

// skipColorCode consumes either "@" + 5 characters, or 2 bare characters.
func skipColorCode(runes []rune, i int) int {
	if i < len(runes) && runes[i] == '@' {
		end := i + 1 + 5
		if end > len(runes) {
			end = len(runes)
		}
		return end
	}
	end := i + 2
	if end > len(runes) {
		end = len(runes)
	}
	return end
}
