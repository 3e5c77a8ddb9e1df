package corpus

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"strings"
)

// Tokenize splits s on single ASCII spaces and drops empty tokens, so runs of
// spaces and leading or trailing spaces never produce "" tokens.
func Tokenize(s string) []string {
	parts := strings.Split(s, " ")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// FoldWord lowercases a word for lookup. Words are compared only in this form.
func FoldWord(s string) string {
	// a Caser keeps state between calls and must not be shared
	return cases.Lower(language.Und).String(s)
}

// FoldWords lowercases words into a new slice.
func FoldWords(words []string) []string {
	caser := cases.Lower(language.Und)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = caser.String(w)
	}
	return out
}
