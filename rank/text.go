package rank

import (
	"strings"
	"unicode"
)

// Stop words to strip before embedding or matching
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// Tokens splits text into lowercase alphanumeric tokens with stop words removed.
// Any run of non-letter, non-digit characters acts as a separator.
func Tokens(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	filtered := make([]string, 0, len(words))
	for _, word := range words {
		if !stopWords[word] {
			filtered = append(filtered, word)
		}
	}
	return filtered
}

// Normalize canonicalizes text for embedding: lowercase tokens with stop
// words removed, joined by single spaces. Normalizing the same text twice
// yields the same result.
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}
