package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/logging"
)

// Entry is the first dictionary entry returned for a word.
type Entry struct {
	Word     string    `json:"word"`
	Meanings []Meaning `json:"meanings"`
}

// Meaning is one part of speech of an entry.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms"`
}

// Definition is one sense of a meaning.
type Definition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
}

// notFoundBody is the error shape the API answers with for unknown words.
type notFoundBody struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// DictionaryClient looks words up. Temporary failures are retried once.
type DictionaryClient struct {
	baseURL string
	client  *http.Client
	policy  *apperrors.Policy
	breaker *apperrors.CircuitBreaker
	logger  *zap.Logger
}

// DictionaryConfig configures a DictionaryClient.
type DictionaryConfig struct {
	BaseURL string // the word is appended, path-escaped
	Timeout time.Duration
	Proxy   string
	Logger  *zap.Logger
}

// NewDictionaryClient builds a dictionary client.
func NewDictionaryClient(cfg DictionaryConfig) (*DictionaryClient, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	client, err := NewHTTPClient(cfg.Timeout, cfg.Proxy)
	if err != nil {
		return nil, err
	}
	return &DictionaryClient{
		baseURL: cfg.BaseURL,
		client:  client,
		policy:  apperrors.FastPolicy(),
		breaker: apperrors.NewCircuitBreaker("dictionary api", nil),
		logger:  logging.OrNop(cfg.Logger),
	}, nil
}

// Lookup returns the first entry for word. Unknown words yield a
// WORD_NOT_FOUND user error.
func (c *DictionaryClient) Lookup(ctx context.Context, word string) (*Entry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, apperrors.User(apperrors.CodeWordNotFound, "no word to define")
	}
	return apperrors.ExecuteWithResult(c.breaker, func() (*Entry, error) {
		return apperrors.DoWithResult(ctx, c.policy, func() (*Entry, error) {
			return c.lookup(ctx, word)
		})
	})
}

func (c *DictionaryClient) lookup(ctx context.Context, word string) (*Entry, error) {
	resp, err := get(ctx, c.client, c.baseURL+url.PathEscape(word))
	if err != nil {
		c.logger.Debug("dictionary request failed", zap.String("word", word), zap.Error(err))
		return nil, err
	}

	body := bytes.TrimSpace(resp.body)
	if resp.status == http.StatusNotFound || (len(body) > 0 && body[0] == '{') {
		var nf notFoundBody
		if json.Unmarshal(body, &nf) == nil && nf.Title != "" {
			return nil, apperrors.NewBuilder(apperrors.CodeWordNotFound, nf.Title).
				User().
				WithContext("word", word).
				Build()
		}
	}
	if !ok(resp.status) {
		return nil, statusErr(resp.status)
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRemoteBadBody, "malformed dictionary body", apperrors.CategoryPermanent)
	}
	if len(entries) == 0 {
		return nil, apperrors.User(apperrors.CodeWordNotFound, "no entries")
	}
	return &entries[0], nil
}
