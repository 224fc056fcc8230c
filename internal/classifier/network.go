package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

// Model is a trained bag-of-words network exported as JSON.
//
//	{"words": [...], "classes": [...],
//	 "layers": [{"weights": [[...]], "bias": [...], "activation": "relu"}, ...]}
//
// weights[i][j] connects input i to output j.
type Model struct {
	Words   []string `json:"words"`
	Classes []string `json:"classes"`
	Layers  []Layer  `json:"layers"`
}

// Layer is one dense layer.
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"` // relu, sigmoid, softmax, linear
}

// LoadModel reads and validates a model artifact.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeModelInvalid, "cannot read model", apperrors.CategorySystem)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeModelInvalid, "cannot parse model", apperrors.CategoryUser)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the layer shapes chain from the vocabulary to the classes.
func (m *Model) Validate() error {
	if len(m.Words) == 0 || len(m.Classes) == 0 || len(m.Layers) == 0 {
		return apperrors.User(apperrors.CodeModelInvalid, "model needs words, classes and layers")
	}
	in := len(m.Words)
	for i, l := range m.Layers {
		if len(l.Weights) != in {
			return apperrors.User(apperrors.CodeModelInvalid,
				fmt.Sprintf("layer %d: expected %d weight rows, got %d", i, in, len(l.Weights)))
		}
		out := len(l.Bias)
		for _, row := range l.Weights {
			if len(row) != out {
				return apperrors.User(apperrors.CodeModelInvalid,
					fmt.Sprintf("layer %d: weight row width %d does not match bias %d", i, len(row), out))
			}
		}
		switch l.Activation {
		case "", "linear", "relu", "sigmoid", "softmax":
		default:
			return apperrors.User(apperrors.CodeModelInvalid,
				fmt.Sprintf("layer %d: unknown activation %q", i, l.Activation))
		}
		in = out
	}
	if in != len(m.Classes) {
		return apperrors.User(apperrors.CodeModelInvalid,
			fmt.Sprintf("output width %d does not match %d classes", in, len(m.Classes)))
	}
	return nil
}

// Vocabulary returns the model's input vocabulary.
func (m *Model) Vocabulary() *Vocabulary { return NewVocabulary(m.Words) }

// Score runs a forward pass.
func (m *Model) Score(vec FeatureVector) []float64 {
	x := make([]float64, len(vec))
	for i, b := range vec {
		x[i] = float64(b)
	}
	for _, l := range m.Layers {
		x = l.forward(x)
	}
	return x
}

func (l Layer) forward(x []float64) []float64 {
	out := append([]float64(nil), l.Bias...)
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		for j, w := range l.Weights[i] {
			out[j] += xi * w
		}
	}
	switch l.Activation {
	case "relu":
		for j, v := range out {
			out[j] = math.Max(0, v)
		}
	case "sigmoid":
		for j, v := range out {
			out[j] = 1 / (1 + math.Exp(-v))
		}
	case "softmax":
		softmax(out)
	}
	return out
}

func softmax(v []float64) {
	maxVal := math.Inf(-1)
	for _, x := range v {
		maxVal = math.Max(maxVal, x)
	}
	sum := 0.0
	for i, x := range v {
		v[i] = math.Exp(x - maxVal)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
