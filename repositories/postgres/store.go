// Package postgres stores messages, chats and users in PostgreSQL.
// It implements the same repository interfaces as the badger store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL DEFAULT '',
	picture TEXT NOT NULL DEFAULT '',
	email   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS chats (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL DEFAULT '',
	is_group          BOOLEAN NOT NULL DEFAULT FALSE,
	members           TEXT[] NOT NULL DEFAULT '{}',
	admin_id          TEXT NOT NULL DEFAULT '',
	latest_message_id TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id           TEXT PRIMARY KEY,
	chat_id      TEXT NOT NULL,
	sender_id    TEXT NOT NULL,
	content      TEXT NOT NULL,
	content_type TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	deleted_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS messages_chat_created_idx ON messages (chat_id, created_at, id);
`

// Open connects to the database and checks the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// Migrate creates the schema. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
