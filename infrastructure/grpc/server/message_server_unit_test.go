package server

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"chat-messages/auth"
	"chat-messages/domain/chat"
	"chat-messages/errors"
	"chat-messages/infrastructure/grpc/wire"
	"chat-messages/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMessageServer_CreateMessage_Mapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockIMessageService(ctrl)
	server := NewMessageServer(logs.GetLoggerFromLevel(slog.LevelDebug), service)
	ctx := auth.WithClaims(context.Background(), &auth.CustomClaims{UserID: "alice"})

	t.Run("should use the authenticated caller as sender", func(t *testing.T) {
		req := require.New(t)
		service.EXPECT().
			CreateMessage(gomock.Any(), chat.CreateMessageCommand{
				ChatID: "general", CallerID: "alice", Content: "hello", ContentType: "text",
			}).
			Return(chat.EnrichedMessage{Message: chat.Message{ID: "m1", Content: "hello", ContentType: chat.ContentText}}, nil).
			Times(1)

		resp, err := server.CreateMessage(ctx, &wire.CreateMessageRequest{ChatID: "general", Content: "hello", ContentType: "text"})

		req.NoError(err)
		req.Equal("m1", resp.Message.ID)
	})

	t.Run("should report a partial failure as Aborted with the stored id", func(t *testing.T) {
		req := require.New(t)
		partial := &errors.OpError{
			Op: "CreateMessage", ChatID: "general", MessageID: "m2",
			Err: fmt.Errorf("%w: latest message not linked", errors.ErrPartialFailure),
		}
		service.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
			Return(chat.EnrichedMessage{Message: chat.Message{ID: "m2"}}, partial).
			Times(1)

		_, err := server.CreateMessage(ctx, &wire.CreateMessageRequest{ChatID: "general", Content: "hello", ContentType: "text"})

		st, ok := status.FromError(err)
		req.True(ok)
		req.Equal(codes.Aborted, st.Code())
		req.Contains(st.Message(), "m2")
	})

	t.Run("should refuse calls without caller identity", func(t *testing.T) {
		req := require.New(t)
		service.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Times(0)

		_, err := server.CreateMessage(context.Background(), &wire.CreateMessageRequest{ChatID: "general"})

		req.Equal(codes.Unauthenticated, status.Code(err))
	})
}
