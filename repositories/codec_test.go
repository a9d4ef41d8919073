package repositories

import (
	"testing"
	"time"

	"chat-messages/domain/chat"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func Test_DecodeMessage_Skips_Unknown_Fields(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	message := chat.Message{ID: "m1", ChatID: "c1", SenderID: "alice", Content: "hi", ContentType: chat.ContentText, CreatedAt: at}

	b := encodeMessage(message)
	// A field written by a newer version
	b = protowire.AppendTag(b, 42, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 7)

	decoded, err := decodeMessage(b)
	req.NoError(err)
	req.Equal(message, decoded)
	req.Nil(decoded.DeletedAt)
}

func Test_DecodeMessage_Rejects_Truncated_Record(t *testing.T) {
	req := require.New(t)
	b := encodeMessage(chat.Message{ID: "m1", Content: "a rather long content"})

	_, err := decodeMessage(b[:len(b)-3])
	req.Error(err)
}
