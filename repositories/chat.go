//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"chat-messages/domain/chat"
	"chat-messages/errors"

	"github.com/dgraph-io/badger/v4"
)

// IChatRepository is the chat directory as seen by the message core:
// membership lookups and the latest-message pointer.
type IChatRepository interface {
	GetChat(ctx context.Context, chatID string) (chat.Chat, error)
	SaveChat(ctx context.Context, c chat.Chat) error
	SetLatestMessage(ctx context.Context, chatID, messageID string, at time.Time) error
	ReplaceLatestMessage(ctx context.Context, chatID, expectedID, nextID string, at time.Time) (bool, error)
}

type ChatRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewChatRepository(db *badger.DB, log *slog.Logger) ChatRepository {
	return ChatRepository{db: db, log: log}
}

func chatKey(chatID string) []byte {
	return []byte("chat:" + chatID)
}

func (r ChatRepository) GetChat(ctx context.Context, chatID string) (chat.Chat, error) {
	if err := ctx.Err(); err != nil {
		return chat.Chat{}, err
	}
	var c chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		c, err = readChat(txn, chatID)
		return err
	})
	return c, errors.Storage(err)
}

func (r ChatRepository) SaveChat(ctx context.Context, c chat.Chat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Storage(r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chatKey(c.ID), encodeChat(c))
	}))
}

// SetLatestMessage moves the chat's latest-message pointer.
// An empty messageID clears it.
func (r ChatRepository) SetLatestMessage(ctx context.Context, chatID, messageID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		c, err := readChat(txn, chatID)
		if err != nil {
			return err
		}
		c.LatestMessageID = messageID
		c.UpdatedAt = at
		return txn.Set(chatKey(chatID), encodeChat(c))
	})
	if err == nil {
		r.log.Debug("Latest message moved", "chat_id", chatID, "message_id", messageID)
	}
	return errors.Storage(err)
}

// ReplaceLatestMessage moves the pointer to nextID only while it still names
// expectedID. It reports whether the pointer was moved.
func (r ChatRepository) ReplaceLatestMessage(ctx context.Context, chatID, expectedID, nextID string, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var replaced bool
	err := r.db.Update(func(txn *badger.Txn) error {
		c, err := readChat(txn, chatID)
		if err != nil {
			return err
		}
		if c.LatestMessageID != expectedID {
			return nil
		}
		c.LatestMessageID = nextID
		c.UpdatedAt = at
		replaced = true
		return txn.Set(chatKey(chatID), encodeChat(c))
	})
	if err != nil {
		return false, errors.Storage(err)
	}
	return replaced, nil
}

func readChat(txn *badger.Txn, chatID string) (chat.Chat, error) {
	item, err := txn.Get(chatKey(chatID))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return chat.Chat{}, errors.NotFound("chat %s", chatID)
	}
	if err != nil {
		return chat.Chat{}, err
	}
	var c chat.Chat
	err = item.Value(func(val []byte) error {
		c, err = decodeChat(val)
		return err
	})
	return c, err
}
