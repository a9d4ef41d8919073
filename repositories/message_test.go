package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"chat-messages/domain/chat"
	"chat-messages/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// setupTestDB initializes an in-memory Badger instance for testing
func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMessage(chatID, sender, content string, at time.Time) chat.Message {
	return chat.Message{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		SenderID:    sender,
		Content:     content,
		ContentType: chat.ContentText,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func Test_Store_And_List_Messages_In_Creation_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	at := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	// Given messages stored out of order
	messages := []chat.Message{
		newMessage("room", "Clara", "third", at.Add(2*time.Minute)),
		newMessage("room", "Alice", "first", at),
		newMessage("room", "Bob", "second", at.Add(1*time.Minute)),
		newMessage("other", "Dan", "elsewhere", at),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(ctx, m))
	}

	// When listing the chat
	fetched, err := repository.ListMessages(ctx, "room")

	// Then only its messages are returned, oldest first
	req.NoError(err)
	req.Equal([]chat.Message{messages[1], messages[2], messages[0]}, fetched)
}

func Test_List_Empty_Chat_Returns_Empty_Slice(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(setupTestDB(t), slog.Default())

	fetched, err := repository.ListMessages(context.Background(), "nobody-here")
	req.NoError(err)
	req.NotNil(fetched)
	req.Empty(fetched)
}

func Test_List_Ignores_Chat_Sharing_A_Prefix(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	at := time.Now().UTC()

	req.NoError(repository.StoreMessage(ctx, newMessage("a", "Alice", "in a", at)))
	req.NoError(repository.StoreMessage(ctx, newMessage("a:b", "Bob", "in a:b", at)))

	fetched, err := repository.ListMessages(ctx, "a")
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("in a", fetched[0].Content)
}

func Test_GetMessage_Requires_Matching_Chat(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	message := newMessage("room", "Alice", "hello", time.Now().UTC())
	req.NoError(repository.StoreMessage(ctx, message))

	fetched, err := repository.GetMessage(ctx, "room", message.ID)
	req.NoError(err)
	req.Equal(message, fetched)

	_, err = repository.GetMessage(ctx, "another-room", message.ID)
	req.ErrorIs(err, errors.ErrNotFound)

	_, err = repository.GetMessage(ctx, "room", uuid.NewString())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_StoreMessage_Rejects_Duplicate_ID(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	message := newMessage("room", "Alice", "hello", time.Now().UTC())

	req.NoError(repository.StoreMessage(ctx, message))
	err := repository.StoreMessage(ctx, message)
	req.ErrorIs(err, errors.ErrStorage)
}

func Test_UpdateContent_Returns_Previous_State(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	createdAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	message := newMessage("room", "Alice", "helo", createdAt)
	req.NoError(repository.StoreMessage(ctx, message))

	editedAt := createdAt.Add(5 * time.Minute)
	previous, err := repository.UpdateContent(ctx, "room", message.ID, "hello", editedAt)
	req.NoError(err)
	req.Equal(message, previous)

	stored, err := repository.GetMessage(ctx, "room", message.ID)
	req.NoError(err)
	req.Equal("hello", stored.Content)
	req.Equal(editedAt, stored.UpdatedAt)
	req.Equal(createdAt, stored.CreatedAt)

	_, err = repository.UpdateContent(ctx, "wrong-room", message.ID, "hijack", editedAt)
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_DeleteMessage_Hard(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	message := newMessage("room", "Alice", "oops", time.Now().UTC())
	req.NoError(repository.StoreMessage(ctx, message))

	removed, err := repository.DeleteMessage(ctx, "room", message.ID, false, time.Now().UTC())
	req.NoError(err)
	req.Equal(message, removed)

	fetched, err := repository.ListMessages(ctx, "room")
	req.NoError(err)
	req.Empty(fetched)

	// A second delete no longer finds it
	_, err = repository.DeleteMessage(ctx, "room", message.ID, false, time.Now().UTC())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_DeleteMessage_Soft_Keeps_Tombstone_Hidden(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := setupTestDB(t)
	repository := NewMessageRepository(db, slog.Default())
	message := newMessage("room", "Alice", "oops", time.Now().UTC())
	req.NoError(repository.StoreMessage(ctx, message))

	deletedAt := time.Now().UTC()
	_, err := repository.DeleteMessage(ctx, "room", message.ID, true, deletedAt)
	req.NoError(err)

	fetched, err := repository.ListMessages(ctx, "room")
	req.NoError(err)
	req.Empty(fetched)

	_, err = repository.GetMessage(ctx, "room", message.ID)
	req.ErrorIs(err, errors.ErrNotFound)

	// The row itself is retained with its tombstone
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(message))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			stored, err := decodeMessage(val)
			if err != nil {
				return err
			}
			req.NotNil(stored.DeletedAt)
			req.Equal(deletedAt, *stored.DeletedAt)
			return nil
		})
	})
	req.NoError(err)
}

func Test_LatestMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	at := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	_, found, err := repository.LatestMessage(ctx, "room")
	req.NoError(err)
	req.False(found)

	first := newMessage("room", "Alice", "first", at)
	second := newMessage("room", "Bob", "second", at.Add(time.Minute))
	req.NoError(repository.StoreMessage(ctx, second))
	req.NoError(repository.StoreMessage(ctx, first))

	latest, found, err := repository.LatestMessage(ctx, "room")
	req.NoError(err)
	req.True(found)
	req.Equal(second.ID, latest.ID)

	_, err = repository.DeleteMessage(ctx, "room", second.ID, true, at.Add(2*time.Minute))
	req.NoError(err)

	latest, found, err = repository.LatestMessage(ctx, "room")
	req.NoError(err)
	req.True(found)
	req.Equal(first.ID, latest.ID)
}

func Test_Concurrent_Stores_Keep_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(setupTestDB(t), slog.Default())
	at := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	count := 50

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := newMessage("room", fmt.Sprintf("user_%d", i), fmt.Sprintf("message %d", i), at.Add(time.Duration(i)*time.Millisecond))
			req.NoError(repository.StoreMessage(ctx, m))
		}(i)
	}
	wg.Wait()

	fetched, err := repository.ListMessages(ctx, "room")
	req.NoError(err)
	req.Len(fetched, count)
	for i := 1; i < len(fetched); i++ {
		req.True(fetched[i-1].CreatedAt.Before(fetched[i].CreatedAt))
	}
}
