package memory

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

// Display name limits, in runes.
const (
	MinNameLen = 2
	MaxNameLen = 50
)

// profileID keys the single user_profile row.
const profileID = "local"

// LegacyNameFile is the plain-text name file older installs kept in the
// data directory.
const LegacyNameFile = "username.txt"

// Name returns the stored display name, or "" when none is set.
func (s *Store) Name(ctx context.Context) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	var name sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM user_profile WHERE id = ? LIMIT 1
	`, profileID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", retrieveErr(err, "get name")
	}
	return name.String, nil
}

// SetName stores or replaces the display name.
func (s *Store) SetName(ctx context.Context, name string) error {
	if err := s.ready(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinNameLen || n > MaxNameLen {
		return apperrors.NewBuilder(apperrors.CodeValidationFailed, "name must be 2 to 50 characters").
			User().
			WithContext("length", n).
			Build()
	}

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profile (id, name, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`, profileID, name, now)
	if err != nil {
		return storeErr(err, "set name")
	}
	return nil
}

// ImportLegacyName copies the name from a legacy plain-text file when no
// name is stored yet. A missing or unreadable file is treated as first run.
// It reports whether a name was imported.
func (s *Store) ImportLegacyName(ctx context.Context, path string) (bool, error) {
	current, err := s.Name(ctx)
	if err != nil {
		return false, err
	}
	if current != "" {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, nil
	}
	name := strings.TrimSpace(string(data))
	if n := utf8.RuneCountInString(name); n < MinNameLen || n > MaxNameLen {
		return false, nil
	}
	if err := s.SetName(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}
