// Package cache keeps the chat directory in Redis in front of a repository.
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"time"

	"chat-messages/domain/chat"
	"chat-messages/repositories"

	"github.com/go-redis/redis/v8"
)

var _ repositories.IChatRepository = (*ChatCache)(nil)

var errStaleFill = stderrors.New("chat invalidated during fetch")

// getter is satisfied by both the client and a watched transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ChatCache reads chats through Redis and invalidates on every write.
// A Redis failure never fails the call: the underlying repository answers.
type ChatCache struct {
	next   repositories.IChatRepository
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewChatCache(log *slog.Logger, next repositories.IChatRepository, client *redis.Client, ttl time.Duration) *ChatCache {
	return &ChatCache{next: next, client: client, ttl: ttl, log: log}
}

func cacheKey(chatID string) string {
	return "chat:" + chatID
}

// generationKey counts the invalidations of a chat. A fill only lands when
// the count did not move since the fetch started.
func generationKey(chatID string) string {
	return "chatgen:" + chatID
}

func (c *ChatCache) GetChat(ctx context.Context, chatID string) (chat.Chat, error) {
	raw, err := c.client.Get(ctx, cacheKey(chatID)).Bytes()
	switch {
	case err == nil:
		var cached chat.Chat
		if err = json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.log.Warn("Dropping undecodable cached chat", "chat_id", chatID, "error", err)
	case !stderrors.Is(err, redis.Nil):
		c.log.Warn("Chat cache read failed", "chat_id", chatID, "error", err)
	}

	generation, genErr := c.generation(ctx, c.client, chatID)
	fetched, err := c.next.GetChat(ctx, chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	if genErr == nil {
		c.fill(ctx, fetched, generation)
	}
	return fetched, nil
}

func (c *ChatCache) SaveChat(ctx context.Context, ch chat.Chat) error {
	if err := c.next.SaveChat(ctx, ch); err != nil {
		return err
	}
	c.invalidate(ctx, ch.ID)
	return nil
}

func (c *ChatCache) SetLatestMessage(ctx context.Context, chatID, messageID string, at time.Time) error {
	if err := c.next.SetLatestMessage(ctx, chatID, messageID, at); err != nil {
		return err
	}
	c.invalidate(ctx, chatID)
	return nil
}

func (c *ChatCache) ReplaceLatestMessage(ctx context.Context, chatID, expectedID, nextID string, at time.Time) (bool, error) {
	replaced, err := c.next.ReplaceLatestMessage(ctx, chatID, expectedID, nextID, at)
	if err != nil {
		return false, err
	}
	if replaced {
		c.invalidate(ctx, chatID)
	}
	return replaced, nil
}

func (c *ChatCache) generation(ctx context.Context, cmd getter, chatID string) (int64, error) {
	generation, err := cmd.Get(ctx, generationKey(chatID)).Int64()
	if stderrors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// fill caches ch unless the chat was invalidated after generation was read.
func (c *ChatCache) fill(ctx context.Context, ch chat.Chat, generation int64) {
	raw, err := json.Marshal(ch)
	if err != nil {
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, ch.ID)
		if err != nil {
			return err
		}
		if current != generation {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(ch.ID), raw, c.ttl)
			return nil
		})
		return err
	}, generationKey(ch.ID))

	switch {
	case err == nil:
	case stderrors.Is(err, errStaleFill), stderrors.Is(err, redis.TxFailedErr):
		c.log.Debug("Skipping stale chat cache fill", "chat_id", ch.ID)
	default:
		c.log.Warn("Chat cache write failed", "chat_id", ch.ID, "error", err)
	}
}

func (c *ChatCache) invalidate(ctx context.Context, chatID string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(chatID))
		pipe.Del(ctx, cacheKey(chatID))
		return nil
	})
	if err != nil {
		c.log.Warn("Chat cache invalidation failed", "chat_id", chatID, "error", err)
	}
}
