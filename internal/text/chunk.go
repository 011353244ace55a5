package text

import "strings"

// ChunkMaxChars is the longest text fragment sent to the phonemizer and
// model in one inference call.
const ChunkMaxChars = 400

// ensurePunctuation appends a comma when the fragment does not already end
// in terminal punctuation, so every chunk carries a prosodic boundary.
func ensurePunctuation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.ContainsRune(".!?,;:", rune(s[len(s)-1])) {
		return s
	}
	return s + ","
}

// ChunkText splits text into fragments of at most maxChars bytes, cutting at
// sentence boundaries first and then greedily at word boundaries for any
// sentence that is itself too long. Empty fragments are dropped; every
// returned chunk ends in punctuation.
func ChunkText(text string, maxChars int) []string {
	var chunks []string

	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if len(sentence) <= maxChars {
			chunks = append(chunks, ensurePunctuation(sentence))
			continue
		}

		var current strings.Builder
		for _, word := range strings.Fields(sentence) {
			if current.Len() > 0 && current.Len()+1+len(word) > maxChars {
				chunks = append(chunks, ensurePunctuation(current.String()))
				current.Reset()
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(word)
		}
		if strings.TrimSpace(current.String()) != "" {
			chunks = append(chunks, ensurePunctuation(current.String()))
		}
	}

	return chunks
}
