package handler

import (
	"context"
	"time"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// NoteCreateHeading heads the note creation form.
const NoteCreateHeading = "Create a note"

// NoteDateLayout formats a note's creation time on its page.
const NoteDateLayout = "Mon 02 Jan, 2006 | 15:04"

func (h *Handlers) createNote(context.Context, Request) (protocol.Reply, error) {
	return protocol.NoteCreateReply(&protocol.NoteCreateForm{
		Heading:        NoteCreateHeading,
		TitleMax:       memory.MaxTitleLen,
		DescriptionMax: memory.MaxDescriptionLen,
	}), nil
}

func (h *Handlers) showNote(ctx context.Context, _ Request) (protocol.Reply, error) {
	pager, err := h.NotePager(ctx)
	if err != nil {
		return protocol.Reply{}, err
	}
	return protocol.NotePagerReply(pager), nil
}

// NotePager loads every note into a pager on its first page.
func (h *Handlers) NotePager(ctx context.Context) (*protocol.NotePager, error) {
	if h.store == nil {
		return nil, apperrors.System(apperrors.CodeMemoryUnavailable, "no note store")
	}
	notes, err := h.store.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	pager := &protocol.NotePager{Notes: make([]protocol.PagedNote, 0, len(notes))}
	for _, n := range notes {
		pager.Notes = append(pager.Notes, PageOf(n, h.loc))
	}
	return pager, nil
}

// PageOf renders a stored note as a pager page in loc.
func PageOf(n memory.Note, loc *time.Location) protocol.PagedNote {
	return protocol.PagedNote{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Created:     n.CreatedAt.In(loc).Format(NoteDateLayout),
	}
}
