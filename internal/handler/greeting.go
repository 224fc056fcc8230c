package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// NameEditorHeading heads the name editor.
const NameEditorHeading = "Let me know your name."

var greetAdjectives = []string{"A very great", "Good", "Very good", "Happy"}

var nameTemplates = []string{
	"Your name is %s",
	"It's %s, you told me that.",
	"It's %s, thats what I remember",
	"Your name was set to %s.",
	"It's %s",
}

// dayPart buckets an hour: morning [6,12), afternoon [12,17),
// evening [17,21), night otherwise.
func dayPart(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

func (h *Handlers) goodTime(ctx context.Context, _ Request) (protocol.Reply, error) {
	name := h.userName(ctx)
	hour := h.now().In(h.loc).Hour()
	return protocol.TextReply(h.choose(greetAdjectives) + " " + dayPart(hour) + ", " + name), nil
}

func (h *Handlers) getUserName(ctx context.Context, req Request) (protocol.Reply, error) {
	name := h.userName(ctx)
	if name == "" {
		return h.setUserName(ctx, req)
	}
	return protocol.TextReply(fmt.Sprintf(h.choose(nameTemplates), capitalize(name))), nil
}

func (h *Handlers) setUserName(ctx context.Context, _ Request) (protocol.Reply, error) {
	return protocol.NameEditorReply(&protocol.NameEditor{
		Heading:  NameEditorHeading,
		Current:  h.userName(ctx),
		Editable: true,
		MinLen:   memory.MinNameLen,
		MaxLen:   memory.MaxNameLen,
	}), nil
}

// userName reads the stored name. A missing or unreadable profile counts
// as unset.
func (h *Handlers) userName(ctx context.Context) string {
	if h.store == nil {
		return ""
	}
	name, err := h.store.Name(ctx)
	if err != nil {
		h.logger.Warn("cannot read user name", zap.Error(err))
		return ""
	}
	return name
}
