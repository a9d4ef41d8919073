//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"chat-messages/domain/chat"
	"chat-messages/errors"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	StoreMessage(ctx context.Context, message chat.Message) error
	GetMessage(ctx context.Context, chatID, messageID string) (chat.Message, error)
	ListMessages(ctx context.Context, chatID string) ([]chat.Message, error)
	UpdateContent(ctx context.Context, chatID, messageID, content string, at time.Time) (chat.Message, error)
	DeleteMessage(ctx context.Context, chatID, messageID string, soft bool, at time.Time) (chat.Message, error)
	LatestMessage(ctx context.Context, chatID string) (chat.Message, bool, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// messageKey is formatted as "msg:{chat_id}:{timestamp_padded}:{uuid}" to:
//  1. Keep chronological order through 19-digit zero padding (lexicographical order).
//  2. Avoid collisions when two messages share the same nanosecond.
func messageKey(m chat.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.ChatID, m.CreatedAt.UnixNano(), m.ID))
}

func messagePrefix(chatID string) []byte {
	return []byte(fmt.Sprintf("msg:%s:", chatID))
}

// indexKey points from a message id to its primary key.
func indexKey(messageID string) []byte {
	return []byte("msgidx:" + messageID)
}

// StoreMessage writes the message and its id index in a single transaction.
func (r MessageRepository) StoreMessage(ctx context.Context, message chat.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Storage(r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(indexKey(message.ID)); err == nil {
			return fmt.Errorf("message %s already exists", message.ID)
		}
		key := messageKey(message)
		if err := txn.Set(key, encodeMessage(message)); err != nil {
			return err
		}
		return txn.Set(indexKey(message.ID), key)
	}))
}

// GetMessage resolves the (chatID, messageID) pair jointly: a message stored
// under another chat is reported as not found.
func (r MessageRepository) GetMessage(ctx context.Context, chatID, messageID string) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}
	var message chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		_, message, err = readMessage(txn, chatID, messageID)
		return err
	})
	return message, errors.Storage(err)
}

// ListMessages returns the live messages of a chat, oldest first.
// The padded timestamp in the key gives the order, no sort is needed.
func (r MessageRepository) ListMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages := make([]chat.Message, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(chatID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				message, err := decodeMessage(val)
				if err != nil {
					return err
				}
				// A chat id containing ':' can share our prefix.
				if message.ChatID == chatID && !message.IsDeleted() {
					messages = append(messages, message)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Storage(err)
	}
	return messages, nil
}

// UpdateContent replaces the content and refreshes UpdatedAt.
// It returns the state of the message before the update.
func (r MessageRepository) UpdateContent(ctx context.Context, chatID, messageID, content string, at time.Time) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}
	var previous chat.Message
	err := r.db.Update(func(txn *badger.Txn) error {
		key, message, err := readMessage(txn, chatID, messageID)
		if err != nil {
			return err
		}
		previous = message
		message.Content = content
		message.UpdatedAt = at
		return txn.Set(key, encodeMessage(message))
	})
	return previous, errors.Storage(err)
}

// DeleteMessage removes the message, or tombstones it when soft is set.
// The message is re-read inside the transaction so that a concurrent delete
// surfaces as not found.
func (r MessageRepository) DeleteMessage(ctx context.Context, chatID, messageID string, soft bool, at time.Time) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}
	var removed chat.Message
	err := r.db.Update(func(txn *badger.Txn) error {
		key, message, err := readMessage(txn, chatID, messageID)
		if err != nil {
			return err
		}
		removed = message

		if soft {
			message.DeletedAt = &at
			return txn.Set(key, encodeMessage(message))
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey(messageID))
	})
	if err == nil {
		r.log.Debug("Message deleted", "chat_id", chatID, "message_id", messageID, "soft", soft)
	}
	return removed, errors.Storage(err)
}

// LatestMessage returns the most recent live message of a chat.
func (r MessageRepository) LatestMessage(ctx context.Context, chatID string) (chat.Message, bool, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, false, err
	}
	var latest chat.Message
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(chatID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse iteration starts after the greatest possible timestamp.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix) && !found; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				message, err := decodeMessage(val)
				if err != nil {
					return err
				}
				if message.ChatID == chatID && !message.IsDeleted() {
					latest, found = message, true
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return chat.Message{}, false, errors.Storage(err)
	}
	return latest, found, nil
}

func readMessage(txn *badger.Txn, chatID, messageID string) ([]byte, chat.Message, error) {
	item, err := txn.Get(indexKey(messageID))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, chat.Message{}, errors.NotFound("message %s in chat %s", messageID, chatID)
	}
	if err != nil {
		return nil, chat.Message{}, err
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return nil, chat.Message{}, err
	}

	item, err = txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, chat.Message{}, errors.NotFound("message %s in chat %s", messageID, chatID)
	}
	if err != nil {
		return nil, chat.Message{}, err
	}

	var message chat.Message
	err = item.Value(func(val []byte) error {
		message, err = decodeMessage(val)
		return err
	})
	if err != nil {
		return nil, chat.Message{}, err
	}
	if message.ChatID != chatID || message.IsDeleted() {
		return nil, chat.Message{}, errors.NotFound("message %s in chat %s", messageID, chatID)
	}
	return key, message, nil
}
