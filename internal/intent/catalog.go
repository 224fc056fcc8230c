// Package intent holds the intent catalog, the dialogue context slot and
// the resolver that picks one catalog entry per turn.
package intent

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flynn-ai/chatbot/internal/classifier"
	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/handler"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Response is a canned reply: plain text, or a [text, next-context] pair
// whose context replaces the one set by the intent.
type Response struct {
	Text       string
	Context    string
	HasContext bool
}

// UnmarshalYAML accepts either a string or a two-element sequence.
func (r *Response) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.Text)
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: response pair needs [text, context], got %d items", node.Line, len(pair))
		}
		r.Text, r.Context, r.HasContext = pair[0], pair[1], true
		return nil
	default:
		return fmt.Errorf("line %d: response must be a string or a [text, context] pair", node.Line)
	}
}

// MarshalYAML writes the form UnmarshalYAML reads.
func (r Response) MarshalYAML() (any, error) {
	if r.HasContext {
		return []string{r.Text, r.Context}, nil
	}
	return r.Text, nil
}

// Definition is one catalog entry.
type Definition struct {
	Intent     string     `yaml:"intent"`
	ContextGet string     `yaml:"cont_get,omitempty"`
	ContextSet string     `yaml:"cont_set,omitempty"`
	Func       string     `yaml:"func,omitempty"`
	Responses  []Response `yaml:"responses,omitempty"`
	Patterns   []string   `yaml:"patterns,omitempty"`

	// Handler is Func validated against the known handlers.
	Handler handler.ID `yaml:"-"`
}

// HasHandler reports whether the entry is served by a handler.
func (d *Definition) HasHandler() bool { return d.Handler != "" }

// Catalog is the ordered, read-only set of intent definitions.
type Catalog struct {
	defs   []Definition
	labels []string
}

type catalogFile struct {
	Intents []Definition `yaml:"intents"`
}

// Parse reads a YAML or JSON catalog. The document is either a list of
// entries or a mapping with an "intents" list.
func Parse(data []byte) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCatalogInvalid, "cannot parse catalog", apperrors.CategoryUser)
	}
	if len(root.Content) == 0 {
		return nil, apperrors.User(apperrors.CodeCatalogInvalid, "catalog is empty")
	}

	var defs []Definition
	doc := root.Content[0]
	var err error
	switch doc.Kind {
	case yaml.SequenceNode:
		err = doc.Decode(&defs)
	case yaml.MappingNode:
		var f catalogFile
		err = doc.Decode(&f)
		defs = f.Intents
	default:
		err = errors.New("catalog must be a list of intents")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCatalogInvalid, "cannot decode catalog", apperrors.CategoryUser)
	}

	return New(defs)
}

// New validates defs and builds a catalog. Every func must name a known
// handler.
func New(defs []Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, apperrors.User(apperrors.CodeCatalogInvalid, "catalog has no intents")
	}
	c := &Catalog{defs: make([]Definition, len(defs))}
	seen := make(map[string]bool)
	for i, d := range defs {
		d.Intent = strings.TrimSpace(d.Intent)
		if d.Intent == "" {
			return nil, apperrors.NewBuilder(apperrors.CodeCatalogInvalid, fmt.Sprintf("entry %d has no intent", i)).
				User().
				Build()
		}
		if d.Func != "" {
			id, err := handler.Parse(d.Func)
			if err != nil {
				return nil, apperrors.NewBuilder(apperrors.CodeCatalogInvalid, fmt.Sprintf("intent %q: unknown func %q", d.Intent, d.Func)).
					User().
					Wrap(err).
					WithSuggestion("Known funcs: " + joinIDs(handler.All())).
					Build()
			}
			d.Handler = id
		}
		c.defs[i] = d
		if !seen[d.Intent] {
			seen[d.Intent] = true
			c.labels = append(c.labels, d.Intent)
		}
	}
	return c, nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewBuilder(apperrors.CodeCatalogNotFound, "catalog not found").
			User().
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCatalogNotFound, "cannot read catalog", apperrors.CategorySystem)
	}
	return Parse(data)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Definitions returns the entries in catalog order.
func (c *Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.defs) }

// Labels returns the distinct intent labels in first-seen order.
func (c *Catalog) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Patterns returns every training utterance labelled with its intent.
func (c *Catalog) Patterns() []classifier.IntentPattern {
	var out []classifier.IntentPattern
	for _, d := range c.defs {
		for _, p := range d.Patterns {
			out = append(out, classifier.IntentPattern{Label: d.Intent, Text: p})
		}
	}
	return out
}

// Marshal writes the catalog back out as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c.defs)
}

func joinIDs(ids []handler.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
