package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizePhrase prepares text for case- and whitespace-insensitive
// comparison: surrounding whitespace is dropped, inner whitespace runs
// collapse to single spaces, and the result is Unicode case folded.
// Two phrases match when their normalized forms are equal.
func NormalizePhrase(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
