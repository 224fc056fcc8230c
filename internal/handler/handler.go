package handler

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/flynn-ai/chatbot/internal/logging"
	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/internal/remote"
)

// Store is the side data the handlers read.
type Store interface {
	Name(ctx context.Context) (string, error)
	ListNotes(ctx context.Context) ([]memory.Note, error)
	FindPlace(ctx context.Context, query string) (*memory.Place, error)
}

// JokeSource fetches jokes.
type JokeSource interface {
	Fetch(ctx context.Context) (*remote.Joke, error)
}

// Dictionary looks words up.
type Dictionary interface {
	Lookup(ctx context.Context, word string) (*remote.Entry, error)
}

// Deps are the collaborators of the handler set.
type Deps struct {
	Store      Store
	Jokes      JokeSource
	Dictionary Dictionary
	// Location is the user's zone; nil means time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// Pick returns a random index in [0, n); defaults to math/rand/v2.
	Pick   func(n int) int
	Logger *zap.Logger
}

// Handlers implements every handler ID against a set of dependencies.
type Handlers struct {
	store      Store
	jokes      JokeSource
	dictionary Dictionary
	loc        *time.Location
	now        func() time.Time
	pick       func(n int) int
	logger     *zap.Logger
}

// New builds the handler set.
func New(deps Deps) *Handlers {
	h := &Handlers{
		store:      deps.Store,
		jokes:      deps.Jokes,
		dictionary: deps.Dictionary,
		loc:        deps.Location,
		now:        deps.Now,
		pick:       deps.Pick,
		logger:     logging.OrNop(deps.Logger),
	}
	if h.loc == nil {
		h.loc = time.Local
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.pick == nil {
		h.pick = rand.Intn
	}
	return h
}

// Register adds every handler to reg.
func (h *Handlers) Register(reg *Registry) {
	reg.Register(GoodTime, h.goodTime)
	reg.Register(MakeJoke, h.makeJoke)
	reg.Register(TimeUser, h.timeUser)
	reg.Register(TimeSomewhere, h.timeSomewhere)
	reg.Register(Define, h.define)
	reg.Register(CreateNote, h.createNote)
	reg.Register(ShowNote, h.showNote)
	reg.Register(SetUserName, h.setUserName)
	reg.Register(GetUserName, h.getUserName)
}

// Registry returns a registry holding every handler.
func (h *Handlers) Registry() *Registry {
	reg := NewRegistry()
	h.Register(reg)
	return reg
}

func (h *Handlers) choose(options []string) string {
	return options[h.pick(len(options))]
}

// capitalize upper-cases the first word's initial and lower-cases the rest.
// Casers are stateful, so each call gets its own.
func capitalize(s string) string {
	s = cases.Lower(language.English).String(s)
	first, rest, found := strings.Cut(s, " ")
	first = cases.Title(language.English).String(first)
	if !found {
		return first
	}
	return first + " " + rest
}
