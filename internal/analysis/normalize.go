// Package analysis holds the review pipeline shared by the batch command and
// the dashboard: normalize, score, tag issues, summarize, render.
package analysis

import "strings"

// Normalize lowercases text, drops every rune that is not an ASCII letter or
// whitespace, and collapses whitespace runs to single spaces. Dropped runes
// are not replaced, so "well-maintained" becomes "wellmaintained". The two
// non-ASCII runes whose lowercase form starts with an ASCII letter (KELVIN
// SIGN and dotted capital I) keep that letter.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
		case r >= 'a' && r <= 'z':
		case r == '\u212a':
			r = 'k'
		case r == '\u0130':
			r = 'i'
		case isSpace(r):
			pendingSpace = true
			continue
		default:
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// isSpace reports Unicode whitespace plus the ASCII separator controls.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f, 0x85, 0xA0:
		return true
	}
	if r < 0x1680 {
		return false
	}
	switch {
	case r == 0x1680, r >= 0x2000 && r <= 0x200a, r == 0x2028, r == 0x2029,
		r == 0x202f, r == 0x205f, r == 0x3000:
		return true
	}
	return false
}
