package textutil

import (
	"strings"
	"unicode"
)

// MaxNameLength is the rune cap applied to sanitized names.
const MaxNameLength = 80

// FallbackName replaces names that sanitize away to nothing.
const FallbackName = "Unknown"

// edgeCutset holds the characters trimmed from both ends of a sanitized name.
const edgeCutset = " ._"

// invalidNameChars maps characters rejected by common filesystems to
// underscores. Newlines, carriage returns, and tabs are included so a name
// can never span lines.
var invalidNameChars = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
	"\n", "_",
	"\r", "_",
	"\t", "_",
)

// Sanitize makes a string safe to use as a single directory or file name
// across operating systems. Invalid characters become underscores, runs of
// whitespace collapse to one space, runs of underscores collapse to one
// underscore, leading and trailing spaces/dots/underscores are trimmed, and
// the result is capped at MaxNameLength runes. Input that strips away to
// nothing yields FallbackName. The function is pure and idempotent.
func Sanitize(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return FallbackName
	}
	name = invalidNameChars.Replace(name)
	name = collapseRuns(name)
	name = strings.Trim(name, edgeCutset)
	if name == "" {
		return FallbackName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.Trim(string(runes[:MaxNameLength]), edgeCutset)
		if name == "" {
			return FallbackName
		}
	}
	return name
}

// collapseRuns reduces every run of whitespace to a single space and every
// run of underscores to a single underscore.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var inSpace, inUnderscore bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteRune(' ')
			}
			inSpace, inUnderscore = true, false
		case r == '_':
			if !inUnderscore {
				b.WriteRune('_')
			}
			inSpace, inUnderscore = false, true
		default:
			b.WriteRune(r)
			inSpace, inUnderscore = false, false
		}
	}
	return b.String()
}
