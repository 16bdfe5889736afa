package util

import (
	"strings"
	"unicode/utf8"
)

const maxErrorLength = 300

// SanitizeError normalizes an error into a single-line, length-bounded
// string safe to embed in a status payload: control characters become
// spaces, quoting characters become single quotes, backslashes become
// forward slashes.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeErrorString(err.Error())
}

func SanitizeErrorString(msg string) string {
	var b strings.Builder
	for _, r := range msg {
		switch {
		case r == '"' || r == '`':
			b.WriteRune('\'')
		case r == '\\':
			b.WriteRune('/')
		case r < 0x20 || r == 0x7f:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxErrorLength {
		cut := maxErrorLength
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut] + "... (truncated)"
	}
	return out
}
