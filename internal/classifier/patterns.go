package classifier

import (
	"math"
	"slices"
)

// IntentPattern is a training utterance for one intent label.
type IntentPattern struct {
	Label string
	Text  string
}

// PatternModel scores intents by bag-of-words overlap with their training
// utterances. It stands in for a trained network when none is configured.
type PatternModel struct {
	vocab   *Vocabulary
	classes []string
	// patterns[c] holds the vectors of every utterance of class c.
	patterns [][]FeatureVector
}

// temperature of the softmax over per-class overlaps. Low enough that a
// partial match trailing the best by a quarter falls under the default
// threshold.
const temperature = 0.08

// NewPatternModel builds the vocabulary and class list from patterns.
// Classes keep first-seen order; the vocabulary is sorted.
func NewPatternModel(patterns []IntentPattern) *PatternModel {
	seen := make(map[string]bool)
	classIndex := make(map[string]int)
	var classes, words []string

	for _, p := range patterns {
		if _, ok := classIndex[p.Label]; !ok {
			classIndex[p.Label] = len(classes)
			classes = append(classes, p.Label)
		}
		for _, tok := range Tokenize(Normalize(p.Text)) {
			s := Stem(tok)
			if !seen[s] {
				seen[s] = true
				words = append(words, s)
			}
		}
	}
	slices.Sort(words)

	m := &PatternModel{
		vocab:    NewVocabulary(words),
		classes:  classes,
		patterns: make([][]FeatureVector, len(classes)),
	}
	for _, p := range patterns {
		vec, ok := m.vocab.Vectorize(Normalize(p.Text))
		if !ok {
			continue
		}
		c := classIndex[p.Label]
		m.patterns[c] = append(m.patterns[c], vec)
	}
	return m
}

// Vocabulary returns the stems seen in the training utterances.
func (m *PatternModel) Vocabulary() *Vocabulary { return m.vocab }

// Classes returns the labels in score order.
func (m *PatternModel) Classes() []string { return append([]string(nil), m.classes...) }

// Score takes, per class, the best Jaccard overlap between vec and that
// class's utterances, and softmaxes the overlaps of the classes that share
// any word with vec. Classes with no overlap score zero.
func (m *PatternModel) Score(vec FeatureVector) []float64 {
	scores := make([]float64, len(m.classes))
	best := 0.0
	for c, vecs := range m.patterns {
		for _, p := range vecs {
			scores[c] = math.Max(scores[c], jaccard(vec, p))
		}
		best = math.Max(best, scores[c])
	}
	if best == 0 {
		return scores
	}

	total := 0.0
	for c, s := range scores {
		if s == 0 {
			continue
		}
		scores[c] = math.Exp((s - best) / temperature)
		total += scores[c]
	}
	for c := range scores {
		scores[c] /= total
	}
	return scores
}

func jaccard(a, b FeatureVector) float64 {
	inter, union := 0, 0
	for i := range a {
		switch {
		case a[i] != 0 && b[i] != 0:
			inter++
			union++
		case a[i] != 0 || b[i] != 0:
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
