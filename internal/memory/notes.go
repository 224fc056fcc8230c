package memory

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

// Note field limits, in runes.
const (
	MaxTitleLen       = 20
	MaxDescriptionLen = 200
)

// Note is one stored user note. Titles need not be unique; ID identifies a row.
type Note struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

// CreateNote validates and stores a note. Title and description are
// required; titles over MaxTitleLen are rejected and descriptions are
// truncated to MaxDescriptionLen.
func (s *Store) CreateNote(ctx context.Context, title, description string) (*Note, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewBuilder(apperrors.CodeValidationFailed, "title and description required").
			User().
			WithSuggestion("Give the note a title and a description").
			Build()
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return nil, apperrors.NewBuilder(apperrors.CodeValidationFailed, "title too long").
			User().
			WithContext("max", MaxTitleLen).
			WithSuggestion("Keep the title to 20 characters").
			Build()
	}
	description = truncateRunes(description, MaxDescriptionLen)

	note := &Note{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, description, created_at)
		VALUES (?, ?, ?, ?)
	`, note.ID, note.Title, note.Description, note.CreatedAt.Unix())
	if err != nil {
		return nil, storeErr(err, "create note")
	}
	return note, nil
}

// ListNotes returns every note in insertion order.
func (s *Store) ListNotes(ctx context.Context) ([]Note, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, created_at FROM notes
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, retrieveErr(err, "list notes")
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		var created int64
		if err := rows.Scan(&n.ID, &n.Title, &n.Description, &created); err != nil {
			return nil, retrieveErr(err, "scan note")
		}
		n.CreatedAt = time.Unix(created, 0)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, retrieveErr(err, "list notes")
	}
	return notes, nil
}

// GetNote returns one note by id, or nil when it does not exist.
func (s *Store) GetNote(ctx context.Context, id string) (*Note, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var n Note
	var created int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at FROM notes WHERE id = ?
	`, id).Scan(&n.ID, &n.Title, &n.Description, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, retrieveErr(err, "get note")
	}
	n.CreatedAt = time.Unix(created, 0)
	return &n, nil
}

// DeleteNote removes exactly the note with id. It reports whether a row
// was deleted.
func (s *Store) DeleteNote(ctx context.Context, id string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return false, storeErr(err, "delete note")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr(err, "delete note")
	}
	return n > 0, nil
}

// CountNotes returns the number of stored notes.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, retrieveErr(err, "count notes")
	}
	return n, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
