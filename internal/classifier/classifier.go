// Package classifier turns user text into ranked intent candidates.
//
// Classification flow:
// 1. Normalize: lower-case, expand contractions, strip punctuation
// 2. Vectorize: stem tokens onto a fixed vocabulary (bag of words)
// 3. Score: an opaque model maps the vector to one score per intent label
// 4. Rank: keep scores above the threshold, highest first
package classifier

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum score a label needs to become a candidate.
const DefaultThreshold = 0.1

// Scorer is a trained model: one score per class, in class order.
// Scores need not sum to one.
type Scorer interface {
	Score(vec FeatureVector) []float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(vec FeatureVector) []float64

// Score implements Scorer.
func (f ScorerFunc) Score(vec FeatureVector) []float64 { return f(vec) }

// Candidate is an intent label with its classifier score.
type Candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier ranks intent labels for a feature vector.
type Classifier struct {
	labels    []string
	scorer    Scorer
	threshold float64
}

// Config for classifier.
type Config struct {
	Labels    []string // class order of the scorer's output
	Scorer    Scorer
	Threshold float64 // zero selects DefaultThreshold
}

// NewClassifier creates a classifier over the given labels.
func NewClassifier(cfg *Config) *Classifier {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{
		labels:    append([]string(nil), cfg.Labels...),
		scorer:    cfg.Scorer,
		threshold: threshold,
	}
}

// Labels returns the class labels in scorer order.
func (c *Classifier) Labels() []string { return append([]string(nil), c.labels...) }

// Classify scores vec and returns every label scoring above the threshold,
// sorted by descending score. Equal scores keep class order. The result may
// be empty.
func (c *Classifier) Classify(vec FeatureVector) []Candidate {
	scores := c.scorer.Score(vec)
	n := min(len(scores), len(c.labels))

	out := make([]Candidate, 0, 4)
	for i := 0; i < n; i++ {
		if scores[i] > c.threshold {
			out = append(out, Candidate{Label: c.labels[i], Score: scores[i]})
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
