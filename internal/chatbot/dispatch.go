package chatbot

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/handler"
	"github.com/flynn-ai/chatbot/internal/intent"
	"github.com/flynn-ai/chatbot/internal/logging"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// Fixed dispatcher replies.
const (
	FillerMessage        = "Hmmm..."
	HandlerFailedMessage = "Something went wrong on my side, please try again."
)

// Dispatcher executes a resolved intent against the dialogue context.
type Dispatcher struct {
	context  *intent.Context
	registry *handler.Registry
	timeout  time.Duration
	pick     func(n int) int
	logger   *zap.Logger
	onError  func()
}

// NewDispatcher creates a dispatcher writing to dc. A zero timeout leaves
// handler calls bounded only by the caller's context.
func NewDispatcher(dc *intent.Context, reg *handler.Registry, timeout time.Duration, pick func(n int) int, logger *zap.Logger) *Dispatcher {
	if pick == nil {
		pick = rand.Intn
	}
	return &Dispatcher{
		context:  dc,
		registry: reg,
		timeout:  timeout,
		pick:     pick,
		logger:   logging.OrNop(logger),
	}
}

// Dispatch sets the context to def's cont_set, then runs its handler or
// picks one of its responses. A [text, context] response overwrites the
// context again. Handler errors become a text reply.
func (d *Dispatcher) Dispatch(ctx context.Context, def *intent.Definition, raw string) protocol.Reply {
	d.context.Set(def.ContextSet)

	switch {
	case def.HasHandler():
		return d.runHandler(ctx, def, raw)
	case len(def.Responses) > 0:
		r := def.Responses[d.pick(len(def.Responses))]
		if r.HasContext {
			d.context.Set(r.Context)
		}
		return protocol.TextReply(r.Text)
	default:
		return protocol.TextReply(FillerMessage)
	}
}

func (d *Dispatcher) runHandler(ctx context.Context, def *intent.Definition, raw string) protocol.Reply {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := d.registry.Execute(ctx, def.Handler, handler.Request{Text: raw})
	if err != nil {
		d.logger.Warn("handler failed",
			zap.String("intent", def.Intent),
			zap.String("handler", string(def.Handler)),
			zap.String("code", apperrors.GetCode(err)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		if d.onError != nil {
			d.onError()
		}
		return protocol.TextReply(HandlerFailedMessage)
	}
	if reply.Kind == "" {
		return protocol.TextReply(FillerMessage)
	}
	d.logger.Debug("handler done",
		zap.String("handler", string(def.Handler)),
		zap.String("kind", string(reply.Kind)),
		zap.Duration("elapsed", time.Since(start)))
	return reply
}
