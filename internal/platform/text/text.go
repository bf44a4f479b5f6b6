package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize drops control characters (ESC included) and keeps newlines and tabs,
// so server text can never drive the terminal.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SingleLine sanitizes s and folds newlines and tabs into spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(Sanitize(s)), " ")
}

func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
