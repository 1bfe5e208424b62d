// Package plaintext reduces HTML-bearing entry content to plain text for
// word counting and search indexing.
package plaintext

import (
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Strip removes HTML tags from s. It is a tag-level approximation, not a
// full HTML parser; entities are left as-is.
func Strip(s string) string {
	return tagRe.ReplaceAllString(s, " ")
}

// WordCount approximates the number of words in HTML-bearing content by
// stripping tags and splitting on whitespace.
func WordCount(s string) int {
	return len(strings.Fields(Strip(s)))
}

// Snippet returns the first n runes of the stripped, whitespace-collapsed
// content, for list and search previews.
func Snippet(s string, n int) string {
	text := strings.Join(strings.Fields(Strip(s)), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
