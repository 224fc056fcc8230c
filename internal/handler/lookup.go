package handler

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/remote"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// JokeApology answers a joke request that could not be served.
const JokeApology = "Sorry, I couldn't fetch a joke for you."

// Caps on how much of a dictionary entry is shown.
const (
	maxMeanings    = 3
	maxDefinitions = 3
)

func (h *Handlers) makeJoke(ctx context.Context, _ Request) (protocol.Reply, error) {
	if h.jokes == nil {
		return protocol.TextReply(JokeApology), nil
	}
	joke, err := h.jokes.Fetch(ctx)
	if err != nil {
		h.logger.Info("joke unavailable",
			zap.String("code", apperrors.GetCode(err)),
			zap.Error(err))
		return protocol.TextReply(JokeApology), nil
	}
	return protocol.TextReply(joke.Text()), nil
}

func (h *Handlers) define(ctx context.Context, req Request) (protocol.Reply, error) {
	word := extractWord(req.Text)
	def := &protocol.Definition{
		Word:    word,
		Heading: capitalize(word),
	}

	var entry *remote.Entry
	var err error = apperrors.User(apperrors.CodeWordNotFound, "no dictionary configured")
	if h.dictionary != nil && word != "" {
		entry, err = h.dictionary.Lookup(ctx, word)
	}
	if err != nil {
		if apperrors.GetCode(err) != apperrors.CodeWordNotFound {
			h.logger.Info("dictionary unavailable", zap.String("word", word), zap.Error(err))
		}
		def.NotFound = true
		def.Message = fmt.Sprintf("Can't fetch any definition for the word '%s'", word)
		return protocol.DefinitionReply(def), nil
	}

	def.Meanings = summarize(entry)
	if len(def.Meanings) == 0 {
		def.NotFound = true
		def.Message = fmt.Sprintf("Can't fetch any definition for the word '%s'", word)
	}
	return protocol.DefinitionReply(def), nil
}

// summarize keeps the first three meanings with their first three senses.
// Synonyms are gathered per part of speech, first-seen order, no repeats.
func summarize(entry *remote.Entry) []protocol.Meaning {
	var out []protocol.Meaning
	for _, m := range entry.Meanings {
		if len(out) == maxMeanings {
			break
		}
		meaning := protocol.Meaning{PartOfSpeech: capitalize(m.PartOfSpeech)}
		var synonyms []string
		for i, d := range m.Definitions {
			if i == maxDefinitions {
				break
			}
			meaning.Senses = append(meaning.Senses, protocol.Sense{
				Definition: d.Definition,
				Example:    d.Example,
			})
			synonyms = append(synonyms, d.Synonyms...)
		}
		synonyms = append(synonyms, m.Synonyms...)
		meaning.Synonyms = dedupe(synonyms)
		out = append(out, meaning)
	}
	return out
}

func dedupe(items []string) []string {
	var out []string
	for _, it := range items {
		if it != "" && !slices.Contains(out, it) {
			out = append(out, it)
		}
	}
	return out
}
