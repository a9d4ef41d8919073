package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"time"

	"chat-messages/domain/chat"
	"chat-messages/errors"
	"chat-messages/repositories"

	"github.com/jmoiron/sqlx"
)

var _ repositories.IMessageRepository = MessageRepository{}

type messageRow struct {
	ID          string       `db:"id"`
	ChatID      string       `db:"chat_id"`
	SenderID    string       `db:"sender_id"`
	Content     string       `db:"content"`
	ContentType string       `db:"content_type"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
	DeletedAt   sql.NullTime `db:"deleted_at"`
}

func (r messageRow) toMessage() chat.Message {
	m := chat.Message{
		ID:          r.ID,
		ChatID:      r.ChatID,
		SenderID:    r.SenderID,
		Content:     r.Content,
		ContentType: chat.ContentType(r.ContentType),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DeletedAt.Valid {
		deletedAt := r.DeletedAt.Time.UTC()
		m.DeletedAt = &deletedAt
	}
	return m
}

const messageColumns = `id, chat_id, sender_id, content, content_type, created_at, updated_at, deleted_at`

type MessageRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewMessageRepository(db *sqlx.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

func (r MessageRepository) StoreMessage(ctx context.Context, message chat.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, sender_id, content, content_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		message.ID, message.ChatID, message.SenderID, message.Content, string(message.ContentType),
		message.CreatedAt, message.UpdatedAt)
	return errors.Storage(err)
}

func (r MessageRepository) GetMessage(ctx context.Context, chatID, messageID string) (chat.Message, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+messageColumns+` FROM messages
		 WHERE id = $1 AND chat_id = $2 AND deleted_at IS NULL`, messageID, chatID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return chat.Message{}, errors.NotFound("message %s in chat %s", messageID, chatID)
	}
	if err != nil {
		return chat.Message{}, errors.Storage(err)
	}
	return row.toMessage(), nil
}

func (r MessageRepository) ListMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+messageColumns+` FROM messages
		 WHERE chat_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at, id`, chatID)
	if err != nil {
		return nil, errors.Storage(err)
	}
	messages := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toMessage())
	}
	return messages, nil
}

// UpdateContent locks the row before writing so that a concurrent delete
// surfaces as not found. It returns the state before the update.
func (r MessageRepository) UpdateContent(ctx context.Context, chatID, messageID, content string, at time.Time) (chat.Message, error) {
	var previous chat.Message
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		previous, err = lockMessage(ctx, tx, chatID, messageID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE messages SET content = $1, updated_at = $2 WHERE id = $3`, content, at, messageID)
		return err
	})
	return previous, errors.Storage(err)
}

// DeleteMessage removes the row, or tombstones it when soft is set.
func (r MessageRepository) DeleteMessage(ctx context.Context, chatID, messageID string, soft bool, at time.Time) (chat.Message, error) {
	var removed chat.Message
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		removed, err = lockMessage(ctx, tx, chatID, messageID)
		if err != nil {
			return err
		}
		if soft {
			_, err = tx.ExecContext(ctx, `UPDATE messages SET deleted_at = $1 WHERE id = $2`, at, messageID)
		} else {
			_, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, messageID)
		}
		return err
	})
	if err == nil {
		r.log.Debug("Message deleted", "chat_id", chatID, "message_id", messageID, "soft", soft)
	}
	return removed, errors.Storage(err)
}

func (r MessageRepository) LatestMessage(ctx context.Context, chatID string) (chat.Message, bool, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+messageColumns+` FROM messages
		 WHERE chat_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC, id DESC LIMIT 1`, chatID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return chat.Message{}, false, nil
	}
	if err != nil {
		return chat.Message{}, false, errors.Storage(err)
	}
	return row.toMessage(), true, nil
}

func (r MessageRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func lockMessage(ctx context.Context, tx *sqlx.Tx, chatID, messageID string) (chat.Message, error) {
	var row messageRow
	err := tx.GetContext(ctx, &row,
		`SELECT `+messageColumns+` FROM messages
		 WHERE id = $1 AND chat_id = $2 AND deleted_at IS NULL
		 FOR UPDATE`, messageID, chatID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return chat.Message{}, errors.NotFound("message %s in chat %s", messageID, chatID)
	}
	if err != nil {
		return chat.Message{}, err
	}
	return row.toMessage(), nil
}
