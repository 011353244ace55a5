package tokenizer

// The vocabulary is the exact ordered alphabet the model was trained against:
// one pad marker, then punctuation, then ASCII letters, then the IPA block.
// A symbol's position in the concatenation is its token ID, so the group
// order and the character order inside each group are a versioned contract.
const (
	pad = "$"

	punctuation = ";:,.!?¡¿—…“«»”\" "

	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	lettersIPA = "ɑɐɒæɓʙβɔɕçɗɖðʤəɘɚɛɜɝɞɟʄɡɠɢʛɦɧħɥʜɨɪʝɭɬɫɮʟɱɯɰŋɳɲɴøɵɸθœɶʘɹɺɾɻʀʁɽʂʃʈʧʉʊʋⱱʌɣɤʍχʎʏʑʐʒʔʡʕʢǀǁǂǃˈˌːˑʼʴʰʱʲʷˠˤ˞↓↑→↗↘’̩‘ᵻ"
)

// PadID is the boundary marker prepended and appended to every ID sequence.
const PadID int64 = 0

var vocab = buildVocab()

func buildVocab() map[rune]int64 {
	m := make(map[rune]int64, 200)
	id := int64(0)
	for _, group := range []string{pad, punctuation, letters, lettersIPA} {
		for _, r := range group {
			m[r] = id
			id++
		}
	}
	return m
}

// CharToID returns the vocabulary index of r, or false when r is not a symbol
// the model knows.
func CharToID(r rune) (int64, bool) {
	id, ok := vocab[r]
	return id, ok
}

// VocabSize returns the number of symbols in the vocabulary.
func VocabSize() int {
	return len(vocab)
}
