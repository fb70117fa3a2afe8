package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultFileName is the database file name inside the project config dir.
const DefaultFileName = "settings.db"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Store persists settings overrides. Keys without a stored value fall back to
// Defaults.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the settings database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Load returns the current settings.
func (s *Store) Load() (Snapshot, error) {
	snap := Defaults()
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Snapshot{}, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Snapshot{}, fmt.Errorf("scan setting: %w", err)
		}
		snap.set(key, value)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("read settings: %w", err)
	}
	return snap, nil
}

// Apply validates snap and stores all of its values in one transaction.
func (s *Store) Apply(snap Snapshot) error {
	if err := Validate(snap); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)
	values := snap.values()
	for _, key := range Keys {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO settings (key, value, updated_at)
			VALUES (?, ?, ?)`, key, values[key], now); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

// Reset drops every stored value so Load returns the defaults again.
func (s *Store) Reset() error {
	if _, err := s.db.Exec("DELETE FROM settings"); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}

// UpdatedAt returns when key was last applied. ok is false for keys that
// still use their default.
func (s *Store) UpdatedAt(key string) (at time.Time, ok bool, err error) {
	var raw string
	err = s.db.QueryRow("SELECT updated_at FROM settings WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get %s: %w", key, err)
	}
	at, _ = time.Parse(time.RFC3339, raw)
	return at, true, nil
}
