package classifier

import (
	"strings"
	"unicode"
)

// FeatureVector is a bag-of-words: one 0/1 entry per vocabulary word.
type FeatureVector []uint8

// Count returns the number of set bits.
func (v FeatureVector) Count() int {
	n := 0
	for _, b := range v {
		if b != 0 {
			n++
		}
	}
	return n
}

// Vocabulary is the ordered list of stemmed tokens a model was trained on.
// Position i is feature dimension i.
type Vocabulary struct {
	words []string
	index map[string][]int
}

// NewVocabulary copies words into an immutable vocabulary.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{
		words: append([]string(nil), words...),
		index: make(map[string][]int, len(words)),
	}
	for i, w := range v.words {
		v.index[w] = append(v.index[w], i)
	}
	return v
}

// Len returns the vector dimension.
func (v *Vocabulary) Len() int { return len(v.words) }

// Words returns a copy of the vocabulary in dimension order.
func (v *Vocabulary) Words() []string { return append([]string(nil), v.words...) }

// Vectorize tokenizes and stems clean text and marks the known stems.
// ok is false when no token matched the vocabulary at all.
func (v *Vocabulary) Vectorize(clean string) (vec FeatureVector, ok bool) {
	vec = make(FeatureVector, len(v.words))
	matched := false
	for _, tok := range Tokenize(clean) {
		for _, i := range v.index[Stem(tok)] {
			vec[i] = 1
			matched = true
		}
	}
	if !matched {
		return nil, false
	}
	return vec, true
}

// splitForms are single words the tokenizer breaks in two.
var splitForms = map[string][2]string{
	"cannot": {"can", "not"},
	"gimme":  {"gim", "me"},
	"gonna":  {"gon", "na"},
	"gotta":  {"got", "ta"},
	"lemme":  {"lem", "me"},
	"wanna":  {"wan", "na"},
}

// Tokenize splits text on anything that is not a letter or digit.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if parts, ok := splitForms[t]; ok {
			tokens = append(tokens, parts[0], parts[1])
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
