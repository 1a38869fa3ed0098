// Package wallpaper persists per-conversation-partner chat appearance on
// the local device. Preferences never have a server copy; they are
// overwritten wholesale on save and removed on explicit reset.
package wallpaper

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDBFileName is the SQLite filename under the app data dir.
const DefaultDBFileName = "wallpapers.db"

const schema = `
CREATE TABLE IF NOT EXISTS wallpapers (
  partner_id  TEXT PRIMARY KEY,
  preference  TEXT NOT NULL,
  updated_at  INTEGER NOT NULL
);
`

// Preference is the stored appearance for one conversation partner: a
// background image as a data URI plus the two bubble colors.
type Preference struct {
	Background    string `json:"background,omitempty"`
	SentColor     string `json:"sent_color,omitempty"`
	ReceivedColor string `json:"received_color,omitempty"`
}

// Store is a sqlite-backed key/value store keyed by partner ID.
type Store struct {
	db *sql.DB
}

// Open creates or opens the preference database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dataDir, DefaultDBFileName)

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open wallpaper db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply wallpaper schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the preference for a partner.
func (s *Store) Save(partnerID string, pref Preference, updatedAt int64) error {
	if partnerID == "" {
		return errors.New("partner_id is required")
	}
	data, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("encode preference for %q: %w", partnerID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO wallpapers (partner_id, preference, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(partner_id) DO UPDATE SET
		  preference = excluded.preference,
		  updated_at = excluded.updated_at`,
		partnerID, string(data), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("save preference for %q: %w", partnerID, err)
	}
	return nil
}

// Get returns the preference for a partner, or nil if none is stored.
func (s *Store) Get(partnerID string) (*Preference, error) {
	if partnerID == "" {
		return nil, errors.New("partner_id is required")
	}

	var data string
	err := s.db.QueryRow(
		`SELECT preference FROM wallpapers WHERE partner_id = ?`, partnerID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preference for %q: %w", partnerID, err)
	}

	var pref Preference
	if err := json.Unmarshal([]byte(data), &pref); err != nil {
		return nil, fmt.Errorf("decode preference for %q: %w", partnerID, err)
	}
	return &pref, nil
}

// Delete removes the preference for a partner. Deleting a missing key is
// not an error.
func (s *Store) Delete(partnerID string) error {
	if partnerID == "" {
		return errors.New("partner_id is required")
	}
	if _, err := s.db.Exec(`DELETE FROM wallpapers WHERE partner_id = ?`, partnerID); err != nil {
		return fmt.Errorf("delete preference for %q: %w", partnerID, err)
	}
	return nil
}
