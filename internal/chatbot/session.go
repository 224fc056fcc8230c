// Package chatbot runs conversation turns: it classifies a message,
// resolves it against the intent catalog and the dialogue context, and
// dispatches it to a canned reply or a handler.
package chatbot

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/flynn-ai/chatbot/internal/classifier"
	"github.com/flynn-ai/chatbot/internal/config"
	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/handler"
	"github.com/flynn-ai/chatbot/internal/intent"
	"github.com/flynn-ai/chatbot/internal/logging"
	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/internal/stats"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// MessageLimitWarning answers the first message that fails validation.
const MessageLimitWarning = "You can only send messages upto 500 character and message can't be empty."

// Options wire a Session. Catalog and Store are required.
type Options struct {
	Engine  config.EngineConfig
	Catalog *intent.Catalog
	// Model scores intents; nil builds a pattern scorer from the catalog.
	Model      *classifier.Model
	Store      *memory.Store
	Jokes      handler.JokeSource
	Dictionary handler.Dictionary
	Location   *time.Location
	Now        func() time.Time
	// Pick returns a random index in [0, n); defaults to math/rand/v2.
	Pick   func(n int) int
	Stats  *stats.Collector
	Logger *zap.Logger
}

// Turn is the outcome of one message.
type Turn struct {
	Reply   protocol.Reply
	Outcome intent.Outcome
	// Intent is the matched catalog label, empty for fallbacks.
	Intent string
	// Context is the dialogue context after the turn.
	Context string
	// Rejected is set when the message failed validation. The reply is
	// empty when the user was already warned.
	Rejected   bool
	Candidates []classifier.Candidate
	Duration   time.Duration
}

// Silent reports whether the turn has nothing to show.
func (t Turn) Silent() bool { return t.Reply.Kind == "" }

// Session holds the per-conversation state. Turns and follow-up actions
// are serialized; a Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	vocab      *classifier.Vocabulary
	classifier *classifier.Classifier
	resolver   *intent.Resolver
	dialogue   intent.Context
	dispatcher *Dispatcher
	handlers   *handler.Handlers
	store      *memory.Store
	stats      *stats.Collector
	logger     *zap.Logger

	maxMessageLen int
	warned        bool
}

// New wires a session from its parts.
func New(opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, apperrors.System(apperrors.CodeCatalogInvalid, "no intent catalog")
	}
	if opts.Store == nil {
		return nil, apperrors.System(apperrors.CodeMemoryUnavailable, "no store")
	}
	logger := logging.OrNop(opts.Logger)

	var (
		vocab  *classifier.Vocabulary
		labels []string
		scorer classifier.Scorer
	)
	if opts.Model != nil {
		vocab, labels, scorer = opts.Model.Vocabulary(), opts.Model.Classes, opts.Model
		known := opts.Catalog.Labels()
		for _, l := range labels {
			if !contains(known, l) {
				logger.Warn("model class has no catalog entry", zap.String("intent", l))
			}
		}
	} else {
		pm := classifier.NewPatternModel(opts.Catalog.Patterns())
		vocab, labels, scorer = pm.Vocabulary(), pm.Classes(), pm
	}
	if vocab.Len() == 0 {
		return nil, apperrors.User(apperrors.CodeCatalogInvalid, "no vocabulary: catalog has no patterns and no model is configured")
	}

	handlers := handler.New(handler.Deps{
		Store:      opts.Store,
		Jokes:      opts.Jokes,
		Dictionary: opts.Dictionary,
		Location:   opts.Location,
		Now:        opts.Now,
		Pick:       opts.Pick,
		Logger:     logger.Named("handler"),
	})
	registry := handlers.Registry()
	if missing := registry.Missing(); len(missing) > 0 {
		return nil, apperrors.NewBuilder(apperrors.CodeHandlerNotFound, "handlers not registered").
			System().
			WithContext("missing", missing).
			Build()
	}

	s := &Session{
		vocab: vocab,
		classifier: classifier.NewClassifier(&classifier.Config{
			Labels:    labels,
			Scorer:    scorer,
			Threshold: opts.Engine.Threshold,
		}),
		resolver: intent.NewResolver(intent.ResolverConfig{
			Catalog:       opts.Catalog,
			MaxCandidates: opts.Engine.MaxCandidates,
			Pick:          opts.Pick,
		}),
		handlers:      handlers,
		store:         opts.Store,
		stats:         opts.Stats,
		logger:        logger,
		maxMessageLen: opts.Engine.MaxMessageLen,
	}
	if s.stats == nil {
		s.stats = stats.NewCollector()
	}
	if s.maxMessageLen <= 0 {
		s.maxMessageLen = 500
	}
	s.dispatcher = NewDispatcher(&s.dialogue, registry, opts.Engine.TurnTimeout.Duration, opts.Pick, logger.Named("dispatch"))
	s.dispatcher.onError = s.stats.RecordError

	logger.Debug("session ready",
		zap.Int("vocabulary", vocab.Len()),
		zap.Int("classes", len(labels)),
		zap.Int("intents", opts.Catalog.Len()),
		zap.Bool("model", opts.Model != nil))
	return s, nil
}

// Respond runs one turn for a raw user message.
func (s *Session) Respond(ctx context.Context, text string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if !s.validMessage(text) {
		s.stats.RecordRejected()
		turn := Turn{Rejected: true, Outcome: intent.OutcomeUnrecognized, Context: s.dialogue.Tag()}
		if !s.warned {
			s.warned = true
			turn.Reply = protocol.TextReply(MessageLimitWarning)
		}
		return turn
	}

	clean := classifier.Normalize(text)
	var (
		res   intent.Resolution
		cands []classifier.Candidate
	)
	if vec, ok := s.vocab.Vectorize(clean); !ok {
		res = s.resolver.Unrecognized()
	} else {
		cands = s.classifier.Classify(vec)
		res = s.resolver.Resolve(cands, s.dialogue.Tag())
	}

	turn := Turn{Outcome: res.Outcome, Candidates: cands}
	if res.Outcome == intent.OutcomeMatched {
		turn.Intent = res.Definition.Intent
		turn.Reply = s.dispatcher.Dispatch(ctx, res.Definition, text)
	} else {
		turn.Reply = protocol.TextReply(res.Message)
	}
	turn.Context = s.dialogue.Tag()
	turn.Duration = time.Since(start)

	s.stats.RecordTurn(res.Outcome.String(), turn.Intent, turn.Duration)
	s.logger.Debug("turn",
		zap.String("clean", clean),
		zap.Any("candidates", cands),
		zap.Stringer("outcome", res.Outcome),
		zap.String("intent", turn.Intent),
		zap.String("context", turn.Context),
		zap.Duration("elapsed", turn.Duration))
	return turn
}

func (s *Session) validMessage(text string) bool {
	return strings.TrimSpace(text) != "" && utf8.RuneCountInString(text) <= s.maxMessageLen
}

// Context returns the current dialogue context tag.
func (s *Session) Context() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialogue.Tag()
}

// Stats returns the session's turn statistics.
func (s *Session) Stats() *stats.Stats {
	return s.stats.Collect(s.store.Size(), s.store.Path())
}

// Store returns the side-data store.
func (s *Session) Store() *memory.Store { return s.store }

// Close releases the store.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
