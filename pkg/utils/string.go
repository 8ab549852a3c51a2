package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// NormalizeWhitespace replaces runs of whitespace with a single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// Truncate shortens str to at most maxWidth display columns, ending in "...".
func Truncate(str string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}
