// Package tokenizer maps phonetic (IPA) strings to the integer ID sequences
// the acoustic model consumes. Symbols come from a fixed vocabulary; unknown
// characters are dropped without error so newer phoneme inventories degrade
// gracefully instead of failing synthesis.
package tokenizer

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// tokenPattern splits an IPA string into maximal word-character runs and
// single non-word, non-space characters. Whitespace is consumed.
var tokenPattern = regexp2.MustCompile(`\w+|[^\w\s]`, regexp2.None)

// Tokenize splits text into word tokens and individual punctuation marks.
func Tokenize(text string) []string {
	var tokens []string
	m, err := tokenPattern.FindStringMatch(text)
	for err == nil && m != nil {
		tokens = append(tokens, m.String())
		m, err = tokenPattern.FindNextMatch(m)
	}
	return tokens
}

// ToIDs converts an already-tokenized string to vocabulary IDs, dropping
// unmapped characters and framing the sequence with the pad marker.
func ToIDs(tokenized string) []int64 {
	ids := make([]int64, 0, len(tokenized)+2)
	ids = append(ids, PadID)
	for _, r := range tokenized {
		if id, ok := CharToID(r); ok {
			ids = append(ids, id)
		}
	}
	return append(ids, PadID)
}

// IPAToIDs runs the full pipeline: tokenize the IPA string, re-join the
// tokens with single spaces, then map every character through the vocabulary.
func IPAToIDs(ipa string) []int64 {
	return ToIDs(strings.Join(Tokenize(ipa), " "))
}
