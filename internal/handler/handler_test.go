package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/internal/remote"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

type fakeStore struct {
	name   string
	notes  []memory.Note
	places map[string]*memory.Place
}

func (f *fakeStore) Name(context.Context) (string, error) { return f.name, nil }

func (f *fakeStore) ListNotes(context.Context) ([]memory.Note, error) { return f.notes, nil }

func (f *fakeStore) FindPlace(_ context.Context, q string) (*memory.Place, error) {
	return f.places[q], nil
}

type fakeJokes struct {
	joke *remote.Joke
	err  error
}

func (f fakeJokes) Fetch(context.Context) (*remote.Joke, error) { return f.joke, f.err }

type fakeDictionary struct {
	entry *remote.Entry
	err   error
	asked string
}

func (f *fakeDictionary) Lookup(_ context.Context, word string) (*remote.Entry, error) {
	f.asked = word
	return f.entry, f.err
}

// noon on 5 March 2024, UTC.
var noon = time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)

func newTestHandlers(store *fakeStore, deps Deps) *Handlers {
	deps.Store = store
	deps.Location = time.UTC
	deps.Now = func() time.Time { return noon }
	deps.Pick = func(int) int { return 0 }
	return New(deps)
}

func run(t *testing.T, h *Handlers, id ID, text string) protocol.Reply {
	t.Helper()
	reply, err := h.Registry().Execute(context.Background(), id, Request{Text: text})
	require.NoError(t, err)
	return reply
}

func TestParse(t *testing.T) {
	for _, id := range All() {
		got, err := Parse(string(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	_, err := Parse("wish_birthday")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeCatalogInvalid, apperrors.GetCode(err))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.Len(t, reg.Missing(), len(All()))

	_, err := reg.Execute(context.Background(), Define, Request{})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, Define, nf.ID)

	newTestHandlers(&fakeStore{}, Deps{}).Register(reg)
	assert.Empty(t, reg.Missing())
}

func TestDayPart(t *testing.T) {
	tests := map[int]string{
		0: "night", 5: "night", 6: "morning", 11: "morning", 12: "afternoon",
		16: "afternoon", 17: "evening", 20: "evening", 21: "night", 23: "night",
	}
	for hour, want := range tests {
		assert.Equal(t, want, dayPart(hour), "hour %d", hour)
	}
}

func TestGoodTime(t *testing.T) {
	h := newTestHandlers(&fakeStore{name: "ada"}, Deps{})
	assert.Equal(t, protocol.TextReply("A very great afternoon, ada"), run(t, h, GoodTime, "hello"))

	h = newTestHandlers(&fakeStore{}, Deps{})
	assert.Equal(t, "A very great afternoon, ", run(t, h, GoodTime, "hello").Text)
}

func TestGetUserName(t *testing.T) {
	h := newTestHandlers(&fakeStore{name: "ada lovelace"}, Deps{})
	assert.Equal(t, "Your name is Ada lovelace", run(t, h, GetUserName, "what is my name").Text)

	h = newTestHandlers(&fakeStore{}, Deps{})
	reply := run(t, h, GetUserName, "what is my name")
	want := protocol.NameEditorReply(&protocol.NameEditor{
		Heading:  NameEditorHeading,
		Editable: true,
		MinLen:   memory.MinNameLen,
		MaxLen:   memory.MaxNameLen,
	})
	if diff := cmp.Diff(want, reply); diff != "" {
		t.Errorf("unset name reply mismatch (-want +got):\n%s", diff)
	}
}

func TestSetUserName_ShowsCurrent(t *testing.T) {
	h := newTestHandlers(&fakeStore{name: "ada"}, Deps{})
	reply := run(t, h, SetUserName, "call me grace")
	require.Equal(t, protocol.KindNameEditor, reply.Kind)
	assert.Equal(t, "ada", reply.NameEditor.Current)
	assert.True(t, reply.NameEditor.Editable)
}

func TestTimeUser_Local(t *testing.T) {
	h := newTestHandlers(&fakeStore{}, Deps{})
	reply := run(t, h, TimeUser, "what time is it")
	want := protocol.TimeReply(&protocol.TimeDisplay{
		Place:   LocalPlace,
		Heading: "Current time in Your place",
		Zones:   []protocol.ZoneTime{{Zone: "UTC", Time: "12:30 PM", Date: "05/03/2024"}},
	})
	if diff := cmp.Diff(want, reply); diff != "" {
		t.Errorf("local time mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeSomewhere(t *testing.T) {
	store := &fakeStore{places: map[string]*memory.Place{
		"japan": {Code: "JP", Name: "japan", Zones: []string{"Asia/Tokyo"}},
	}}
	h := newTestHandlers(store, Deps{})

	for _, text := range []string{"what time is it in japan", "What's the time in Japan now?"} {
		reply := run(t, h, TimeUser, text)
		require.Equal(t, protocol.KindTime, reply.Kind, text)
		want := &protocol.TimeDisplay{
			Place:   "Japan",
			Heading: "Current time in Japan",
			Zones:   []protocol.ZoneTime{{Zone: "Asia/Tokyo", Time: "09:30 PM", Date: "05/03/2024"}},
		}
		if diff := cmp.Diff(want, reply.Time); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", text, diff)
		}
	}
}

func TestTimeUser_CapitalizedPreposition(t *testing.T) {
	store := &fakeStore{places: map[string]*memory.Place{
		"new york": {Code: "US", Name: "united states", Zones: []string{"America/New_York"}},
	}}
	h := newTestHandlers(store, Deps{})

	for _, text := range []string{"What's the time In New York now?", "TIME AT new york"} {
		reply := run(t, h, TimeUser, text)
		require.Equal(t, protocol.KindTime, reply.Kind, text)
		assert.False(t, reply.Time.NotFound, text)
		assert.Equal(t, "United states", reply.Time.Place, text)
		require.Len(t, reply.Time.Zones, 1, text)
		assert.Equal(t, "America/New_York", reply.Time.Zones[0].Zone, text)
	}

	assert.False(t, hasPlace("Insight on"))
	assert.True(t, hasPlace("weather On mars"))
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"mary ann":      "Mary ann",
		"ADA":           "Ada",
		"united states": "United states",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, capitalize(in), in)
	}
}

func TestTimeSomewhere_NotFoundFallsBackToLocal(t *testing.T) {
	h := newTestHandlers(&fakeStore{}, Deps{})
	local := run(t, h, TimeUser, "time please")
	missing := run(t, h, TimeSomewhere, "time in atlantis")

	require.Equal(t, protocol.KindTime, missing.Kind)
	assert.True(t, missing.Time.NotFound)
	assert.Equal(t, PlaceNotFound, missing.Time.Note)
	assert.Equal(t, local.Time.Zones, missing.Time.Zones)
	assert.Equal(t, local.Time.Place, missing.Time.Place)
}

func TestExtractPlace(t *testing.T) {
	tests := map[string]string{
		"what time is it in india":                "india",
		"time in new york now":                    "new york",
		"what's the time at the moment in paris?": "paris",
		"time on":                                 "time on",
		"japan":                                   "japan",
	}
	for in, want := range tests {
		assert.Equal(t, want, extractPlace(in), in)
	}
}

func TestExtractWord(t *testing.T) {
	tests := map[string]string{
		"define apple":                       "apple",
		"what is the meaning of serendipity": "serendipity",
		"what does ephemeral mean":           "ephemeral",
		"meaning of the word quixotic":       "quixotic",
		"ubiquitous":                         "ubiquitous",
		"define ubiquitous?":                 "ubiquitous",
	}
	for in, want := range tests {
		assert.Equal(t, want, extractWord(in), in)
	}
}

func TestMakeJoke(t *testing.T) {
	h := newTestHandlers(&fakeStore{}, Deps{Jokes: fakeJokes{joke: &remote.Joke{Setup: "Why?", Delivery: "Because."}}})
	assert.Equal(t, "Why?"+remote.JokeSeparator+"Because.", run(t, h, MakeJoke, "tell me a joke").Text)

	failing := fakeJokes{err: apperrors.Temporary(apperrors.CodeNetworkTimeout, "timed out")}
	h = newTestHandlers(&fakeStore{}, Deps{Jokes: failing})
	assert.Equal(t, protocol.TextReply(JokeApology), run(t, h, MakeJoke, "tell me a joke"))
}

func TestDefine(t *testing.T) {
	dict := &fakeDictionary{entry: &remote.Entry{
		Word: "run",
		Meanings: []remote.Meaning{
			{PartOfSpeech: "verb", Definitions: []remote.Definition{
				{Definition: "d1", Example: "e1", Synonyms: []string{"dash", "sprint"}},
				{Definition: "d2", Synonyms: []string{"sprint", "jog"}},
				{Definition: "d3"},
				{Definition: "d4", Synonyms: []string{"hidden"}},
			}, Synonyms: []string{"dash", "race"}},
			{PartOfSpeech: "noun", Definitions: []remote.Definition{{Definition: "n1"}}},
			{PartOfSpeech: "adjective", Definitions: []remote.Definition{{Definition: "a1"}}},
			{PartOfSpeech: "adverb", Definitions: []remote.Definition{{Definition: "x1"}}},
		},
	}}
	h := newTestHandlers(&fakeStore{}, Deps{Dictionary: dict})

	reply := run(t, h, Define, "define run")
	assert.Equal(t, "run", dict.asked)
	want := &protocol.Definition{
		Word:    "run",
		Heading: "Run",
		Meanings: []protocol.Meaning{
			{
				PartOfSpeech: "Verb",
				Senses:       []protocol.Sense{{Definition: "d1", Example: "e1"}, {Definition: "d2"}, {Definition: "d3"}},
				Synonyms:     []string{"dash", "sprint", "jog", "race"},
			},
			{PartOfSpeech: "Noun", Senses: []protocol.Sense{{Definition: "n1"}}},
			{PartOfSpeech: "Adjective", Senses: []protocol.Sense{{Definition: "a1"}}},
		},
	}
	if diff := cmp.Diff(want, reply.Definition); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestDefine_NotFound(t *testing.T) {
	dict := &fakeDictionary{err: apperrors.User(apperrors.CodeWordNotFound, "No Definitions Found")}
	h := newTestHandlers(&fakeStore{}, Deps{Dictionary: dict})

	reply := run(t, h, Define, "define qwzx")
	require.Equal(t, protocol.KindDefinition, reply.Kind)
	assert.True(t, reply.Definition.NotFound)
	assert.Equal(t, "Can't fetch any definition for the word 'qwzx'", reply.Definition.Message)
	assert.Empty(t, reply.Definition.Meanings)
}

func TestNotes(t *testing.T) {
	created := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	store := &fakeStore{notes: []memory.Note{
		{ID: "1", Title: "T", Description: "D", CreatedAt: created},
		{ID: "2", Title: "T2", Description: "D2", CreatedAt: created},
	}}
	h := newTestHandlers(store, Deps{})

	form := run(t, h, CreateNote, "create a note")
	require.Equal(t, protocol.KindNoteCreate, form.Kind)
	assert.Equal(t, 20, form.NoteCreate.TitleMax)
	assert.Equal(t, 200, form.NoteCreate.DescriptionMax)

	reply := run(t, h, ShowNote, "show my notes")
	require.Equal(t, protocol.KindNotePager, reply.Kind)
	p := reply.NotePager
	assert.Equal(t, "T", p.Heading())
	assert.Equal(t, "Tue 02 Jan, 2024 | 15:04\nD", p.Body())
	assert.Equal(t, "1 / 2", p.Label())

	empty := newTestHandlers(&fakeStore{}, Deps{})
	reply = run(t, empty, ShowNote, "show my notes")
	assert.True(t, reply.NotePager.Empty())
	assert.Equal(t, protocol.EmptyPagerHeading, reply.NotePager.Heading())
	assert.True(t, strings.Contains(reply.NotePager.Body(), "Create a note"))
}
