// Package sanitize normalizes and validates raw user text before it is
// sent over the network or persisted.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Sanitize returns a cleaned copy of raw: NFKC-normalized, trimmed,
// internal whitespace runs collapsed to a single space, control and
// non-printable runes dropped. Pure and total.
func Sanitize(raw string) string {
	s := norm.NFKC.String(raw)

	var sb strings.Builder
	sb.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pendingSpace = sb.Len() > 0
			continue
		}
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Valid reports whether s is non-empty, at most maxLen bytes, valid UTF-8,
// and free of control characters, NUL bytes, and raw angle brackets.
// Never panics.
func Valid(s string, maxLen int) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r == '<' || r == '>' || r == 0 {
			return false
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
