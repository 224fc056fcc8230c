// Package memory handles all persistent side data using SQLite.
//
// One database holds:
// - notes: user notes created and paged through by the note handlers
// - user_profile: the display name
// - timezones: the read-only place → timezone reference table
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// SQLite driver (required for database/sql registration).
	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

// Store is the single shared handle on the side-data database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and prepares its
// schema and reference data. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMemoryUnavailable, "cannot create data directory", apperrors.CategorySystem)
		}
	}

	db, err := openDB(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMemoryUnavailable, "cannot open database", apperrors.CategorySystem)
	}

	store := &Store{db: db, path: path}

	if err := store.init(); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeMemoryUnavailable, "cannot initialize schema", apperrors.CategorySystem)
	}

	if err := store.seedTimezones(); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeMemoryUnavailable, "cannot seed timezones", apperrors.CategorySystem)
	}

	return store, nil
}

// openDB opens a single SQLite database with optimal settings.
func openDB(dbPath string) (*sql.DB, error) {
	dsn := dbPath + "?_foreign_keys=on"
	if dbPath != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// One connection: turns are serialized and ":memory:" databases are
	// per-connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Size returns the database file size in bytes; zero for in-memory stores.
func (s *Store) Size() int64 {
	if s.path == ":memory:" {
		return 0
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return apperrors.System(apperrors.CodeMemoryUnavailable, "memory store not initialized")
	}
	return nil
}

// ============================================================
// SCHEMA
// ============================================================

func (s *Store) init() error {
	schema := `
	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		description TEXT
	);

	-- ============================================================
	-- NOTES
	-- ============================================================

	CREATE TABLE IF NOT EXISTS notes (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL CHECK (length(title) <= 20),
		description     TEXT NOT NULL CHECK (length(description) <= 200),
		created_at      INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);
	CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);

	-- ============================================================
	-- USER PROFILE
	-- ============================================================

	CREATE TABLE IF NOT EXISTS user_profile (
		id              TEXT PRIMARY KEY,
		name            TEXT,
		created_at      INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		updated_at      INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	-- ============================================================
	-- TIMEZONE REFERENCE TABLE
	-- ============================================================

	CREATE TABLE IF NOT EXISTS timezones (
		country_code    TEXT PRIMARY KEY,
		country_name    TEXT NOT NULL,
		country_city    TEXT NOT NULL DEFAULT '',
		zones           TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_timezones_name ON timezones(country_name COLLATE NOCASE);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	return ensureSchemaVersion(s.db, 1, "Initial side-data schema")
}

func ensureSchemaVersion(db *sql.DB, version int, description string) error {
	var current sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&current); err != nil {
		return err
	}

	if !current.Valid || int(current.Int64) < version {
		_, err := db.Exec(
			"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			version,
			description,
		)
		return err
	}

	return nil
}

// joinList stores a list column as lower-case, comma-terminated entries
// ("paris,lyon,") so LIKE '%x%' matches inside a single entry.
func joinList(items []string) string {
	var sb strings.Builder
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		sb.WriteString(strings.ToLower(it))
		sb.WriteString(",")
	}
	return sb.String()
}

func splitList(col string) []string {
	var out []string
	for _, it := range strings.Split(col, ",") {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func storeErr(err error, op string) error {
	return apperrors.Wrap(err, apperrors.CodeMemoryStoreFailed, fmt.Sprintf("%s failed", op), apperrors.CategorySystem)
}

func retrieveErr(err error, op string) error {
	return apperrors.Wrap(err, apperrors.CodeMemoryRetrieveFailed, fmt.Sprintf("%s failed", op), apperrors.CategorySystem)
}
