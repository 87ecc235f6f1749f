// Package tokenizer extracts normalized word tokens from free-form
// text for frequency indexing. Tokenization is deliberately simple:
// maximal runs of ASCII letters, lowercased. No stemming, no stop
// words, no locale awareness.
package tokenizer

import "github.com/parafreq/parafreq-api/internal/domain"

// Counts tokenizes the given content and returns the number of
// occurrences of each distinct normalized token.
//
// A token is a maximal run of ASCII letters; every other byte,
// including digits, punctuation, and non-ASCII characters, acts as a
// separator. Tokens are lowercased before counting. Tokens longer than
// domain.MaxWordLength are discarded, since they cannot be stored in
// the index. Content with no tokens yields an empty map.
func Counts(content string) map[string]int {
	counts := make(map[string]int)

	var token []byte
	flush := func() {
		if len(token) > 0 && len(token) <= domain.MaxWordLength {
			counts[string(token)] += 1
		}
		token = token[:0]
	}

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c >= 'a' && c <= 'z':
			token = append(token, c)
		case c >= 'A' && c <= 'Z':
			token = append(token, c+('a'-'A'))
		default:
			flush()
		}
	}
	flush()

	return counts
}

// Total returns the total number of token occurrences in a counts map,
// i.e. the document length after tokenization.
func Total(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
