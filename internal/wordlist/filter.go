package wordlist

import "strings"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// LowerASCII keeps words made only of lowercase ASCII letters. Caps and
// punctuation are added by the generator, so source words stay plain.
func LowerASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// Any keeps every non-blank word.
func Any(word string) bool {
	return strings.TrimSpace(word) != ""
}

// Filter returns the words accepted by keep. A nil keep accepts all.
func Filter(words []string, keep FilterFunc) []string {
	if keep == nil {
		return words
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
