// Package textutil provides the text helpers used when chat messages turn
// into filesystem names and trigger comparisons.
//
// Sanitize produces a single safe path segment: characters rejected by
// common filesystems become underscores, whitespace and underscore runs
// collapse, edge punctuation is trimmed, and length is bounded. Empty
// results fall back to a fixed placeholder so callers always receive a
// usable name.
//
// NormalizePhrase prepares text for case- and whitespace-insensitive
// phrase matching via Unicode case folding.
package textutil
