package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"chat-messages/domain/chat"
	"chat-messages/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestScan_And_Render(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	messages := repositories.NewMessageRepository(db, slog.Default())
	chats := repositories.NewChatRepository(db, slog.Default())
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	req.NoError(chats.SaveChat(ctx, chat.Chat{ID: "general", Name: "General", Members: []string{"alice"}}))
	for i, content := range []string{"first", "second"} {
		req.NoError(messages.StoreMessage(ctx, chat.Message{
			ID: content, ChatID: "general", SenderID: "alice", Content: content,
			ContentType: chat.ContentText, CreatedAt: at.Add(time.Duration(i) * time.Second),
		}))
	}
	req.NoError(messages.StoreMessage(ctx, chat.Message{ID: "elsewhere", ChatID: "other", SenderID: "bob",
		Content: "hidden", ContentType: chat.ContentText, CreatedAt: at}))

	t.Run("should scan one chat in chronological order", func(t *testing.T) {
		req := require.New(t)
		records, err := Scan(db, "msg:general:")
		req.NoError(err)
		req.Len(records, 2)
		req.Equal("first", records[0].ID)
		req.Equal("second", records[1].ID)
	})

	t.Run("should skip the id index when scanning messages", func(t *testing.T) {
		req := require.New(t)
		records, err := Scan(db, "msg:")
		req.NoError(err)
		req.Len(records, 3)
		for _, r := range records {
			req.NotEqual("INDEX", r.Type)
		}
	})

	t.Run("should render one row per record", func(t *testing.T) {
		req := require.New(t)
		records, err := Scan(db, "msg:general:")
		req.NoError(err)

		var out bytes.Buffer
		Render(&out, records)
		req.Contains(out.String(), "[text] alice: first")
		req.Contains(out.String(), "2026-03-14 09:00:01")
	})
}
