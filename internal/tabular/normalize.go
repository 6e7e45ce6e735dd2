// Package tabular recovers CSV tables from free-text model responses.
package tabular

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const byteOrderMark = "\ufeff"

// Normalize strips the formatting artifacts models wrap around CSV output:
// a leading byte order mark, surrounding whitespace, a leading and trailing
// backtick fence (optionally tagged "csv"), and a leading bare "csv" token.
// Text without those patterns is returned trimmed and otherwise unchanged.
//
// The rules are applied until nothing changes, so Normalize(Normalize(s)) ==
// Normalize(s) even for nested fences.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), byteOrderMark))
	s = stripOpeningFence(s)
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimRight(s, "`")
	s = strings.TrimSpace(s)
	return stripCSVToken(s)
}

// stripOpeningFence removes a leading run of backticks and a "csv" language
// tag attached to it.
func stripOpeningFence(s string) string {
	if !strings.HasPrefix(s, "`") {
		return s
	}
	s = strings.TrimLeft(s, "`")
	if hasTagPrefix(s, "csv") {
		s = s[len("csv"):]
	}
	return strings.TrimSpace(s)
}

// stripCSVToken removes a leading case-insensitive "csv" that stands on its
// own, i.e. is followed by whitespace or ends the text.
func stripCSVToken(s string) string {
	if !hasTagPrefix(s, "csv") {
		return s
	}
	return strings.TrimSpace(s[len("csv"):])
}

func hasTagPrefix(s, tag string) bool {
	if len(s) < len(tag) || !strings.EqualFold(s[:len(tag)], tag) {
		return false
	}
	if len(s) == len(tag) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[len(tag):])
	return r != utf8.RuneError && unicode.IsSpace(r)
}
