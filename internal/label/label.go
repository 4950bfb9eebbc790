// Package label parses finalize messages into category/subcategory pairs.
//
// A finalize message is expected to look like "Mumbai | Gateway of India"
// or "Mumbai - Gateway of India". Parsing never fails: text that does not
// split cleanly falls back to a fixed category with the whole message as
// the subcategory, so every batch receives a usable destination name.
package label

import (
	"regexp"
	"strings"

	"snapsort/internal/textutil"
)

// FallbackCategory is used when the text does not split into two parts.
const FallbackCategory = "UnknownCity"

// FallbackSubcategory is used when the finalize text is empty.
const FallbackSubcategory = "UnknownSite"

// separator matches a category/subcategory divider together with any
// whitespace around it. Only the first match splits; later dividers stay
// inside the subcategory.
var separator = regexp.MustCompile(`\s*[|-]\s*`)

// Label is a parsed batch label. Both fields are sanitized single path
// segments and never empty.
type Label struct {
	Category    string
	Subcategory string
}

// Parse splits text on the first '|' or '-' divider. When both sides are
// non-empty they become the category and subcategory. Otherwise the
// category is FallbackCategory and the whole trimmed text becomes the
// subcategory, or FallbackSubcategory when the text is empty.
func Parse(text string) Label {
	trimmed := strings.TrimSpace(text)
	parts := separator.Split(trimmed, 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != "" {
		return Label{
			Category:    textutil.Sanitize(parts[0]),
			Subcategory: textutil.Sanitize(parts[1]),
		}
	}
	sub := trimmed
	if sub == "" {
		sub = FallbackSubcategory
	}
	return Label{
		Category:    FallbackCategory,
		Subcategory: textutil.Sanitize(sub),
	}
}

// DirName builds the destination directory name for a finalized batch. The
// combined "<category> - <subcategory>" string is sanitized as a whole
// before the batch start stamp is appended, so the stamp parentheses are
// never subject to trimming.
func (l Label) DirName(stamp string) string {
	return textutil.Sanitize(l.Category+" - "+l.Subcategory) + " (" + stamp + ")"
}
