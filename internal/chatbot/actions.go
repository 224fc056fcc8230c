package chatbot

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/memory"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

// Follow-up actions confirm the interactive replies: the name editor, the
// note form and the note pager.

// SaveName stores a new display name. It must be 2 to 50 runes and differ
// from the stored one.
func (s *Session) SaveName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < memory.MinNameLen || n > memory.MaxNameLen {
		return apperrors.NewBuilder(apperrors.CodeValidationFailed, "name must be 2 to 50 characters").
			User().
			WithContext("length", n).
			Build()
	}
	current, err := s.store.Name(ctx)
	if err != nil {
		return err
	}
	if name == current {
		return apperrors.User(apperrors.CodeValidationFailed, "that is already your name")
	}
	if err := s.store.SetName(ctx, name); err != nil {
		return err
	}
	s.logger.Debug("name saved", zap.Int("length", utf8.RuneCountInString(name)))
	return nil
}

// CreateNote stores a note from the creation form.
func (s *Session) CreateNote(ctx context.Context, title, description string) (*memory.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.store.CreateNote(ctx, title, description)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note created", zap.String("id", note.ID))
	return note, nil
}

// Notes opens a pager over every stored note.
func (s *Session) Notes(ctx context.Context) (*protocol.NotePager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handlers.NotePager(ctx)
}

// DeleteNote deletes the note the pager shows and advances the pager. The
// pager is left in its empty state after the last note goes.
func (s *Session) DeleteNote(ctx context.Context, pager *protocol.NotePager) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := pager.Page()
	if !ok {
		return apperrors.User(apperrors.CodeValidationFailed, "no note to delete")
	}
	deleted, err := s.store.DeleteNote(ctx, page.ID)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.Warn("note already gone", zap.String("id", page.ID))
	}
	pager.RemoveCurrent()
	return nil
}
