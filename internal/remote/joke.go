package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/logging"
)

// JokeSeparator goes between the setup and the delivery of a two-part joke.
const JokeSeparator = "\n――――――――――\n"

// Joke is either a single line or a setup/delivery pair.
type Joke struct {
	Single   string
	Setup    string
	Delivery string
}

// Text renders the joke as one string.
func (j Joke) Text() string {
	if j.Single != "" {
		return j.Single
	}
	return j.Setup + JokeSeparator + j.Delivery
}

type jokeBody struct {
	Error    bool   `json:"error"`
	Message  string `json:"message"`
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
}

// JokeClient fetches jokes. It never retries so a call is bounded by the
// client timeout.
type JokeClient struct {
	url     string
	client  *http.Client
	breaker *apperrors.CircuitBreaker
	logger  *zap.Logger
}

// JokeConfig configures a JokeClient.
type JokeConfig struct {
	URL     string
	Timeout time.Duration
	Proxy   string
	Logger  *zap.Logger
}

// NewJokeClient builds a joke client.
func NewJokeClient(cfg JokeConfig) (*JokeClient, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	client, err := NewHTTPClient(cfg.Timeout, cfg.Proxy)
	if err != nil {
		return nil, err
	}
	return &JokeClient{
		url:    cfg.URL,
		client: client,
		breaker: apperrors.NewCircuitBreaker("joke api", &apperrors.CircuitBreakerConfig{
			MaxFailures:      3,
			ResetTimeout:     30 * time.Second,
			HalfOpenAttempts: 1,
		}),
		logger: logging.OrNop(cfg.Logger),
	}, nil
}

// Fetch returns one joke. Network failures, non-2xx statuses, API-reported
// errors and malformed bodies are all returned as errors.
func (c *JokeClient) Fetch(ctx context.Context) (*Joke, error) {
	return apperrors.ExecuteWithResult(c.breaker, func() (*Joke, error) {
		return apperrors.DoWithResult(ctx, apperrors.NoRetry(), func() (*Joke, error) {
			return c.fetch(ctx)
		})
	})
}

func (c *JokeClient) fetch(ctx context.Context) (*Joke, error) {
	start := time.Now()
	resp, err := get(ctx, c.client, c.url)
	if err != nil {
		c.logger.Debug("joke request failed", zap.Error(err))
		return nil, err
	}
	c.logger.Debug("joke response",
		zap.Int("status", resp.status),
		zap.Duration("elapsed", time.Since(start)))

	if !ok(resp.status) {
		return nil, statusErr(resp.status)
	}

	var body jokeBody
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRemoteBadBody, "malformed joke body", apperrors.CategoryPermanent)
	}
	if body.Error {
		err := apperrors.Permanent(apperrors.CodeRemoteBadBody, "joke api reported an error")
		err.Context = map[string]any{"message": body.Message}
		return nil, err
	}

	switch {
	case strings.TrimSpace(body.Joke) != "":
		return &Joke{Single: body.Joke}, nil
	case body.Setup != "" && body.Delivery != "":
		return &Joke{Setup: body.Setup, Delivery: body.Delivery}, nil
	default:
		return nil, apperrors.Permanent(apperrors.CodeRemoteBadBody, "joke body has no joke")
	}
}
