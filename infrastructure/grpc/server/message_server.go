package server

import (
	"context"
	"log/slog"

	"chat-messages/auth"
	"chat-messages/domain/chat"
	"chat-messages/errors"
	"chat-messages/infrastructure/grpc/wire"
	"chat-messages/services"

	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MessageServer binds the Message Service to messages.v1.MessageService.
// The caller is the user_id claim injected by auth.UnaryInterceptor.
type MessageServer struct {
	wire.UnimplementedMessageServiceServer
	log     *slog.Logger
	service services.IMessageService
}

func NewMessageServer(log *slog.Logger, service services.IMessageService) *MessageServer {
	return &MessageServer{log: log, service: service}
}

func (s *MessageServer) ListMessages(ctx context.Context, req *wire.ListMessagesRequest) (*wire.ListMessagesResponse, error) {
	callerID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.service.ListMessages(ctx, chat.ListMessagesCommand{ChatID: req.ChatID, CallerID: callerID})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &wire.ListMessagesResponse{Messages: wire.FromEnrichedList(messages)}, nil
}

// CreateMessage reports a message stored without its latest-message link as
// codes.Aborted; the status message carries the id of the stored message.
func (s *MessageServer) CreateMessage(ctx context.Context, req *wire.CreateMessageRequest) (*wire.CreateMessageResponse, error) {
	callerID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	created, err := s.service.CreateMessage(ctx, chat.CreateMessageCommand{
		ChatID:      req.ChatID,
		CallerID:    callerID,
		Content:     req.Content,
		ContentType: req.ContentType,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &wire.CreateMessageResponse{Message: wire.FromEnriched(created)}, nil
}

func (s *MessageServer) EditMessage(ctx context.Context, req *wire.EditMessageRequest) (*wire.EditMessageResponse, error) {
	callerID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.service.EditMessage(ctx, chat.EditMessageCommand{
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		CallerID:  callerID,
		Content:   req.Content,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return lo.ToPtr(wire.FromEditResult(result)), nil
}

func (s *MessageServer) DeleteMessage(ctx context.Context, req *wire.DeleteMessageRequest) (*wire.DeleteMessageResponse, error) {
	callerID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.service.DeleteMessage(ctx, chat.DeleteMessageCommand{
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		CallerID:  callerID,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return lo.ToPtr(wire.FromDeleteResult(result)), nil
}

func (s *MessageServer) caller(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		s.log.Warn("Call without caller identity, is the auth interceptor installed?")
		return "", status.Error(codes.Unauthenticated, "caller identity is missing")
	}
	return userID, nil
}
