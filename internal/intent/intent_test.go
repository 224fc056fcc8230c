package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flynn-ai/chatbot/internal/classifier"
	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/handler"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 10)
	assert.NotEmpty(t, c.Patterns())

	// Every handler is reachable from the bundled catalog.
	used := map[handler.ID]bool{}
	for _, d := range c.Definitions() {
		if d.HasHandler() {
			used[d.Handler] = true
		}
	}
	for _, id := range handler.All() {
		assert.True(t, used[id], "handler %s unused", id)
	}
}

func TestParse_JSONAndPairs(t *testing.T) {
	data := []byte(`[
		{"intent": "greet", "responses": ["hi", ["want a joke?", "offer"]], "patterns": ["hello"]},
		{"intent": "joke", "cont_get": null, "cont_set": "joke", "func": "make_joke"}
	]`)
	c, err := Parse(data)
	require.NoError(t, err)

	defs := c.Definitions()
	require.Len(t, defs, 2)
	want := []Response{{Text: "hi"}, {Text: "want a joke?", Context: "offer", HasContext: true}}
	if diff := cmp.Diff(want, defs[0].Responses); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, handler.MakeJoke, defs[1].Handler)
	assert.Equal(t, "", defs[1].ContextGet)
	assert.Equal(t, "joke", defs[1].ContextSet)
	assert.Equal(t, []string{"greet", "joke"}, c.Labels())
}

func TestParse_IntentsMapping(t *testing.T) {
	c, err := Parse([]byte("intents:\n  - intent: a\n    responses: [x]\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown func":  `[{"intent": "x", "func": "mimic"}]`,
		"no intent":     `[{"responses": ["hi"]}]`,
		"bad pair":      `[{"intent": "x", "responses": [["a", "b", "c"]]}]`,
		"empty":         ``,
		"scalar":        `hello`,
		"no intents":    `[]`,
		"not yaml":      `[{`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeCatalogInvalid, apperrors.GetCode(err))
		})
	}
}

func TestLoad(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, apperrors.CodeCatalogNotFound, apperrors.GetCode(err))

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	def, err := Default()
	require.NoError(t, err)
	data, err := def.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	c, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(def.Definitions(), c.Definitions()); diff != "" {
		t.Errorf("catalog changed on round trip (-want +got):\n%s", diff)
	}
}

func TestContext(t *testing.T) {
	var c Context
	_, ok := c.Get()
	assert.False(t, ok)

	c.Set("joke")
	tag, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, "joke", tag)

	c.Set("")
	assert.Equal(t, "", c.Tag())

	c.Set("x")
	c.Clear()
	_, ok = c.Get()
	assert.False(t, ok)
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New([]Definition{
		{Intent: "a", Responses: []Response{{Text: "a"}}},
		{Intent: "b", Responses: []Response{{Text: "b plain"}}},
		{Intent: "b", ContextGet: "ctx", Responses: []Response{{Text: "b in ctx"}}},
		{Intent: "c", Responses: []Response{{Text: "c"}}},
		{Intent: "d", Responses: []Response{{Text: "d"}}},
	})
	require.NoError(t, err)
	return c
}

func cands(labels ...string) []classifier.Candidate {
	out := make([]classifier.Candidate, len(labels))
	for i, l := range labels {
		out[i] = classifier.Candidate{Label: l, Score: 0.9 - float64(i)*0.1}
	}
	return out
}

func TestResolve_Ambiguous(t *testing.T) {
	r := NewResolver(ResolverConfig{Catalog: testCatalog(t), Pick: func(int) int { return 2 }})

	res := r.Resolve(cands("a", "b", "c", "d"), "")
	assert.Equal(t, OutcomeAmbiguous, res.Outcome)
	assert.Nil(t, res.Definition)
	assert.Equal(t, Apologies[2], res.Message)
}

func TestResolve_ContextPreferred(t *testing.T) {
	r := NewResolver(ResolverConfig{Catalog: testCatalog(t)})

	// "a" ranks higher but only the "b" entry requires the live context.
	res := r.Resolve(cands("a", "b"), "ctx")
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "b in ctx", res.Definition.Responses[0].Text)

	// Without context the first collected entry with an empty cont_get wins.
	res = r.Resolve(cands("b", "a"), "")
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "a", res.Definition.Intent)
}

func TestResolve_FallsBackToFirstCollected(t *testing.T) {
	c, err := New([]Definition{
		{Intent: "x", ContextGet: "one"},
		{Intent: "y", ContextGet: "two"},
	})
	require.NoError(t, err)
	r := NewResolver(ResolverConfig{Catalog: c})

	res := r.Resolve(cands("y", "x"), "")
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "x", res.Definition.Intent)
}

func TestResolve_NoMatch(t *testing.T) {
	r := NewResolver(ResolverConfig{Catalog: testCatalog(t), Pick: func(int) int { return 0 }})

	res := r.Resolve(cands("zzz"), "")
	assert.Equal(t, OutcomeNoMatch, res.Outcome)
	assert.Equal(t, Apologies[0], res.Message)

	res = r.Resolve(nil, "")
	assert.Equal(t, OutcomeNoMatch, res.Outcome)
}

func TestResolve_Unrecognized(t *testing.T) {
	r := NewResolver(ResolverConfig{Catalog: testCatalog(t)})
	res := r.Unrecognized()
	assert.Equal(t, OutcomeUnrecognized, res.Outcome)
	assert.Equal(t, UnrecognizedMessage, res.Message)
	assert.Equal(t, "unrecognized", res.Outcome.String())
}
