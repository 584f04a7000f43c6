// Package textutil provides text segmentation and normalization helpers.
package textutil

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Average adult reading speed used for reading-time estimates.
const wordsPerMinute = 238

// CountWords returns the number of word tokens in s, using Unicode word
// segmentation. Punctuation and whitespace tokens are not counted.
func CountWords(s string) int {
	count := 0

	tokens := words.FromString(s)
	for tokens.Next() {
		if isWordToken(tokens.Value()) {
			count++
		}
	}

	return count
}

// ReadingMinutes estimates reading time in whole minutes for a word count.
// Anything non-empty reads as at least one minute.
func ReadingMinutes(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}

	minutes := (wordCount + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}

	return minutes
}

// isWordToken reports whether a segment contains at least one letter or digit.
func isWordToken(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

// NormalizeWhitespace replaces runs of whitespace with a single space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate truncates a string to at most maxLen runes, appending an ellipsis
// marker. Cutting on rune boundaries keeps multibyte text intact.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	return string(runes[:maxLen]) + "..."
}
