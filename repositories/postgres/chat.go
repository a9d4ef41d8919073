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
	"github.com/lib/pq"
)

var _ repositories.IChatRepository = ChatRepository{}

type chatRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	IsGroup         bool           `db:"is_group"`
	Members         pq.StringArray `db:"members"`
	AdminID         string         `db:"admin_id"`
	LatestMessageID string         `db:"latest_message_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type ChatRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewChatRepository(db *sqlx.DB, log *slog.Logger) ChatRepository {
	return ChatRepository{db: db, log: log}
}

func (r ChatRepository) GetChat(ctx context.Context, chatID string) (chat.Chat, error) {
	var row chatRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, name, is_group, members, admin_id, latest_message_id, created_at, updated_at
		 FROM chats WHERE id = $1`, chatID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return chat.Chat{}, errors.NotFound("chat %s", chatID)
	}
	if err != nil {
		return chat.Chat{}, errors.Storage(err)
	}
	return chat.Chat{
		ID:              row.ID,
		Name:            row.Name,
		IsGroup:         row.IsGroup,
		Members:         []string(row.Members),
		AdminID:         row.AdminID,
		LatestMessageID: row.LatestMessageID,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}, nil
}

func (r ChatRepository) SaveChat(ctx context.Context, c chat.Chat) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO chats (id, name, is_group, members, admin_id, latest_message_id, created_at, updated_at)
		 VALUES (:id, :name, :is_group, :members, :admin_id, :latest_message_id, :created_at, :updated_at)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, is_group = EXCLUDED.is_group, members = EXCLUDED.members,
		   admin_id = EXCLUDED.admin_id, latest_message_id = EXCLUDED.latest_message_id,
		   updated_at = EXCLUDED.updated_at`,
		chatRow{
			ID:              c.ID,
			Name:            c.Name,
			IsGroup:         c.IsGroup,
			Members:         pq.StringArray(append([]string{}, c.Members...)),
			AdminID:         c.AdminID,
			LatestMessageID: c.LatestMessageID,
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
		})
	return errors.Storage(err)
}

// SetLatestMessage moves the chat's latest-message pointer.
// An empty messageID clears it.
func (r ChatRepository) SetLatestMessage(ctx context.Context, chatID, messageID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE chats SET latest_message_id = $1, updated_at = $2 WHERE id = $3`, messageID, at, chatID)
	if err != nil {
		return errors.Storage(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("chat %s", chatID)
	}
	r.log.Debug("Latest message moved", "chat_id", chatID, "message_id", messageID)
	return nil
}

// ReplaceLatestMessage moves the pointer to nextID only while it still names
// expectedID. It reports whether the pointer was moved.
func (r ChatRepository) ReplaceLatestMessage(ctx context.Context, chatID, expectedID, nextID string, at time.Time) (bool, error) {
	var id string
	err := r.db.GetContext(ctx, &id,
		`UPDATE chats SET latest_message_id = $1, updated_at = $2
		 WHERE id = $3 AND latest_message_id = $4
		 RETURNING id`, nextID, at, chatID, expectedID)
	if err == nil {
		return true, nil
	}
	if !stderrors.Is(err, sql.ErrNoRows) {
		return false, errors.Storage(err)
	}
	if _, err = r.GetChat(ctx, chatID); err != nil {
		return false, err
	}
	return false, nil
}
