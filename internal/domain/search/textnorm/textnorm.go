// Package textnorm turns markup-bearing catalog text into plain, single-spaced text.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	entityRe = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Normalize strips tags, replaces entities with a space, collapses whitespace and trims.
// Tags become a space so adjacent words stay apart and no new entity can form
// across a removed tag. Entities are not decoded: a decoded "&lt;b&gt;" would
// turn into a tag on the next pass. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, " ")
	s = entityRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizePtr treats a nil pointer as absent text.
func NormalizePtr(s *string) string {
	if s == nil {
		return ""
	}
	return Normalize(*s)
}

// Truncate cuts s to at most maxRunes runes and appends Ellipsis when it cut anything.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:maxRunes]), " ") + Ellipsis
}
