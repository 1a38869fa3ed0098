package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS users (
  id           TEXT PRIMARY KEY,
  code         TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL DEFAULT '',
  push_token   TEXT,
  created_at   TIMESTAMPTZ NOT NULL
);
`,
	`
CREATE TABLE IF NOT EXISTS friendships (
  id         TEXT PRIMARY KEY,
  user_a_id  TEXT NOT NULL REFERENCES users(id),
  user_b_id  TEXT NOT NULL REFERENCES users(id),
  created_at TIMESTAMPTZ NOT NULL,
  UNIQUE (user_a_id, user_b_id),
  CHECK (user_a_id < user_b_id)
);
`,
	`
CREATE TABLE IF NOT EXISTS messages (
  id              TEXT PRIMARY KEY,
  conversation_id TEXT NOT NULL,
  sender_id       TEXT NOT NULL REFERENCES users(id),
  sender_name     TEXT NOT NULL DEFAULT '',
  receiver_id     TEXT NOT NULL REFERENCES users(id),
  body            TEXT NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL,
  status          TEXT NOT NULL CHECK (status IN ('sent','seen')) DEFAULT 'sent',
  seen_at         TIMESTAMPTZ
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation_id);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages (sender_id);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages (receiver_id);
`,
}

// Migrate applies the schema. Statements are idempotent so re-running is
// safe.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
