//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chat-messages/contract"
	"chat-messages/domain/chat"
	"chat-messages/domain/mutability"
	"chat-messages/errors"
	"chat-messages/repositories"
	"chat-messages/runtime"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	OpListMessages  = "ListMessages"
	OpCreateMessage = "CreateMessage"
	OpEditMessage   = "EditMessage"
	OpDeleteMessage = "DeleteMessage"
)

type IMessageService interface {
	ListMessages(ctx context.Context, cmd chat.ListMessagesCommand) ([]chat.EnrichedMessage, error)
	CreateMessage(ctx context.Context, cmd chat.CreateMessageCommand) (chat.EnrichedMessage, error)
	EditMessage(ctx context.Context, cmd chat.EditMessageCommand) (chat.EditResult, error)
	DeleteMessage(ctx context.Context, cmd chat.DeleteMessageCommand) (chat.DeleteResult, error)
}

type MessageService struct {
	log          *slog.Logger
	messages     repositories.IMessageRepository
	chats        repositories.IChatRepository
	users        repositories.IUserRepository
	policy       mutability.Policy
	clock        contract.Clock
	locks        *runtime.KeyedMutex
	softDelete   bool
	linkAttempts int
	linkInterval time.Duration
}

type Option func(*MessageService)

// WithSoftDelete keeps deleted messages as hidden tombstones.
func WithSoftDelete(soft bool) Option {
	return func(s *MessageService) { s.softDelete = soft }
}

// WithLinkRetry bounds the attempts made to move a chat's latest-message pointer.
func WithLinkRetry(attempts int, interval time.Duration) Option {
	return func(s *MessageService) {
		if attempts > 0 {
			s.linkAttempts = attempts
		}
		if interval > 0 {
			s.linkInterval = interval
		}
	}
}

func NewMessageService(log *slog.Logger,
	messages repositories.IMessageRepository,
	chats repositories.IChatRepository,
	users repositories.IUserRepository,
	policy mutability.Policy, clock contract.Clock, opts ...Option) *MessageService {
	s := &MessageService{
		log:          log,
		messages:     messages,
		chats:        chats,
		users:        users,
		policy:       policy,
		clock:        clock,
		locks:        runtime.NewKeyedMutex(),
		linkAttempts: 3,
		linkInterval: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListMessages returns every live message of a chat, oldest first, joined
// with sender and chat display data.
func (s *MessageService) ListMessages(ctx context.Context, cmd chat.ListMessagesCommand) ([]chat.EnrichedMessage, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, s.fail(OpListMessages, cmd.ChatID, "", err)
	}
	c, err := s.authorize(ctx, cmd.ChatID, cmd.CallerID)
	if err != nil {
		return nil, s.fail(OpListMessages, cmd.ChatID, "", err)
	}

	messages, err := s.messages.ListMessages(ctx, cmd.ChatID)
	if err != nil {
		return nil, s.fail(OpListMessages, cmd.ChatID, "", err)
	}

	senders := lo.Map(messages, func(m chat.Message, _ int) string { return m.SenderID })
	users, err := s.users.GetUsers(ctx, append(senders, c.Members...)...)
	if err != nil {
		return nil, s.fail(OpListMessages, cmd.ChatID, "", err)
	}
	return chat.Enrich(c, users, messages), nil
}

// CreateMessage persists a new message and moves the chat's latest-message
// pointer to it. When the pointer cannot be moved the created message is
// still returned together with an ErrPartialFailure.
func (s *MessageService) CreateMessage(ctx context.Context, cmd chat.CreateMessageCommand) (chat.EnrichedMessage, error) {
	if err := validateCommand(cmd); err != nil {
		return chat.EnrichedMessage{}, s.fail(OpCreateMessage, cmd.ChatID, "", err)
	}
	contentType, err := chat.ParseContentType(cmd.ContentType)
	if err != nil {
		return chat.EnrichedMessage{}, s.fail(OpCreateMessage, cmd.ChatID, "", err)
	}
	c, err := s.authorize(ctx, cmd.ChatID, cmd.CallerID)
	if err != nil {
		return chat.EnrichedMessage{}, s.fail(OpCreateMessage, cmd.ChatID, "", err)
	}

	// Creations in one chat are serialized so that timestamps and the
	// latest-message pointer move in the same order.
	unlock := s.locks.Lock(chatLockKey(cmd.ChatID))
	defer unlock()

	now, err := s.nextCreatedAt(ctx, cmd.ChatID)
	if err != nil {
		return chat.EnrichedMessage{}, s.fail(OpCreateMessage, cmd.ChatID, "", err)
	}
	message := chat.Message{
		ID:          uuid.NewString(),
		ChatID:      cmd.ChatID,
		SenderID:    cmd.CallerID,
		Content:     cmd.Content,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = s.messages.StoreMessage(ctx, message); err != nil {
		return chat.EnrichedMessage{}, s.fail(OpCreateMessage, cmd.ChatID, "", err)
	}

	linkErr := s.linkLatest(ctx, cmd.ChatID, message.ID, now)
	if linkErr == nil {
		c.LatestMessageID = message.ID
	}

	users, err := s.users.GetUsers(ctx, c.Members...)
	if err != nil {
		// The message exists, a missing display join must not hide it.
		s.log.Warn("Sender lookup failed, returning bare identities",
			"op", OpCreateMessage, "chat_id", cmd.ChatID, "message_id", message.ID, "error", err)
		users = map[string]chat.User{}
	}
	enriched := chat.Enrich(c, users, []chat.Message{message})[0]

	if linkErr != nil {
		err = fmt.Errorf("%w: message stored but latest message not linked: %v", errors.ErrPartialFailure, linkErr)
		return enriched, s.fail(OpCreateMessage, cmd.ChatID, message.ID, err)
	}
	s.log.Debug("Message created", "chat_id", cmd.ChatID, "message_id", message.ID, "sender_id", cmd.CallerID)
	return enriched, nil
}

// EditMessage replaces the content of a message still inside its mutability window.
func (s *MessageService) EditMessage(ctx context.Context, cmd chat.EditMessageCommand) (chat.EditResult, error) {
	if err := validateCommand(cmd); err != nil {
		return chat.EditResult{}, s.fail(OpEditMessage, cmd.ChatID, cmd.MessageID, err)
	}
	if _, err := s.authorize(ctx, cmd.ChatID, cmd.CallerID); err != nil {
		return chat.EditResult{}, s.fail(OpEditMessage, cmd.ChatID, cmd.MessageID, err)
	}

	unlock := s.locks.Lock(cmd.MessageID)
	defer unlock()

	now, err := s.checkMutable(ctx, cmd.ChatID, cmd.MessageID)
	if err != nil {
		return chat.EditResult{}, s.fail(OpEditMessage, cmd.ChatID, cmd.MessageID, err)
	}

	previous, err := s.messages.UpdateContent(ctx, cmd.ChatID, cmd.MessageID, cmd.Content, now)
	if err != nil {
		return chat.EditResult{}, s.fail(OpEditMessage, cmd.ChatID, cmd.MessageID, err)
	}

	updated := previous
	updated.Content = cmd.Content
	updated.UpdatedAt = now
	return chat.EditResult{Previous: previous, NewContent: cmd.Content, Updated: updated}, nil
}

// DeleteMessage removes a message still inside its mutability window.
// When it was the chat's latest message, the pointer falls back to the most
// recent remaining message, or is cleared.
func (s *MessageService) DeleteMessage(ctx context.Context, cmd chat.DeleteMessageCommand) (chat.DeleteResult, error) {
	if err := validateCommand(cmd); err != nil {
		return chat.DeleteResult{}, s.fail(OpDeleteMessage, cmd.ChatID, cmd.MessageID, err)
	}
	if _, err := s.authorize(ctx, cmd.ChatID, cmd.CallerID); err != nil {
		return chat.DeleteResult{}, s.fail(OpDeleteMessage, cmd.ChatID, cmd.MessageID, err)
	}

	unlock := s.locks.Lock(cmd.MessageID)
	defer unlock()

	now, err := s.checkMutable(ctx, cmd.ChatID, cmd.MessageID)
	if err != nil {
		return chat.DeleteResult{}, s.fail(OpDeleteMessage, cmd.ChatID, cmd.MessageID, err)
	}

	removed, err := s.messages.DeleteMessage(ctx, cmd.ChatID, cmd.MessageID, s.softDelete, now)
	if err != nil {
		return chat.DeleteResult{}, s.fail(OpDeleteMessage, cmd.ChatID, cmd.MessageID, err)
	}
	result := chat.DeleteResult{Removed: removed}

	if err = s.repairLatest(ctx, cmd.ChatID, cmd.MessageID, now); err != nil {
		err = fmt.Errorf("%w: message deleted but latest message not repaired: %v", errors.ErrPartialFailure, err)
		return result, s.fail(OpDeleteMessage, cmd.ChatID, cmd.MessageID, err)
	}
	return result, nil
}

func (s *MessageService) authorize(ctx context.Context, chatID, callerID string) (chat.Chat, error) {
	c, err := s.chats.GetChat(ctx, chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	if !c.HasMember(callerID) {
		return chat.Chat{}, errors.ErrForbidden
	}
	return c, nil
}

// checkMutable resolves the (chatID, messageID) pair and applies the mutability policy.
// It returns the instant the decision was taken.
func (s *MessageService) checkMutable(ctx context.Context, chatID, messageID string) (time.Time, error) {
	current, err := s.messages.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return time.Time{}, err
	}
	now := s.clock.Now()
	if s.policy.Decide(current.CreatedAt, now) == mutability.Deny {
		return time.Time{}, &errors.PolicyViolation{Reason: s.policy.Reason()}
	}
	return now, nil
}

// nextCreatedAt returns a creation instant strictly after the chat's newest
// message, so that insertion order and chronological order never diverge
// when the clock repeats itself. It must run under the chat lock.
// Timestamps are kept to the microsecond, the precision every store keeps.
func (s *MessageService) nextCreatedAt(ctx context.Context, chatID string) (time.Time, error) {
	now := s.clock.Now().Truncate(time.Microsecond)
	latest, found, err := s.messages.LatestMessage(ctx, chatID)
	if err != nil {
		return time.Time{}, err
	}
	if found && !now.After(latest.CreatedAt) {
		now = latest.CreatedAt.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now, nil
}

// linkLatest retries transient failures with an exponential backoff.
// A chat that disappeared is not retried.
func (s *MessageService) linkLatest(ctx context.Context, chatID, messageID string, at time.Time) error {
	return s.retry(ctx, chatID, messageID, func() error {
		return s.chats.SetLatestMessage(ctx, chatID, messageID, at)
	})
}

// repairLatest moves the pointer off a removed message. The swap is
// conditional in the store itself: a cached or concurrent view of the chat
// cannot skip it.
func (s *MessageService) repairLatest(ctx context.Context, chatID, removedID string, at time.Time) error {
	unlock := s.locks.Lock(chatLockKey(chatID))
	defer unlock()

	latest, found, err := s.messages.LatestMessage(ctx, chatID)
	if err != nil {
		return err
	}
	next := ""
	if found {
		next = latest.ID
	}
	return s.retry(ctx, chatID, removedID, func() error {
		replaced, err := s.chats.ReplaceLatestMessage(ctx, chatID, removedID, next, at)
		if err == nil && replaced {
			s.log.Debug("Latest message repaired", "chat_id", chatID, "removed_id", removedID, "next_id", next)
		}
		return err
	})
}

func (s *MessageService) retry(ctx context.Context, chatID, messageID string, operation func() error) error {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = s.linkInterval
	retries := backoff.WithContext(backoff.WithMaxRetries(exponential, uint64(s.linkAttempts-1)), ctx)

	return backoff.RetryNotify(func() error {
		err := operation()
		if errors.KindOf(err) == errors.KindNotFound {
			return backoff.Permanent(err)
		}
		return err
	}, retries, func(err error, wait time.Duration) {
		s.log.Warn("Moving latest message failed, retrying",
			"chat_id", chatID, "message_id", messageID, "wait", wait, "error", err)
	})
}

// fail wraps err with the operation context and logs it once, at a level
// matching its kind.
func (s *MessageService) fail(op, chatID, messageID string, err error) error {
	err = errors.Storage(err)
	attrs := []any{"op", op, "chat_id", chatID, "message_id", messageID, "error", err}
	switch errors.KindOf(err) {
	case errors.KindValidation, errors.KindNotFound:
		s.log.Debug("Request rejected", attrs...)
	case errors.KindForbidden, errors.KindPolicyViolation:
		s.log.Info("Request refused", attrs...)
	default:
		s.log.Error("Operation failed", attrs...)
	}
	return &errors.OpError{Op: op, ChatID: chatID, MessageID: messageID, Err: err}
}

func chatLockKey(chatID string) string {
	return "chat:" + chatID
}
