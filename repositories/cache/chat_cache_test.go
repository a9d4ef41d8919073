package cache

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"chat-messages/domain/chat"
	"chat-messages/errors"
	"chat-messages/mocks"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestChatCache_ReadThrough(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client := setupRedis(t)
	ctrl := gomock.NewController(t)
	next := mocks.NewMockIChatRepository(ctrl)
	cache := NewChatCache(slog.Default(), next, client, time.Minute)

	id := uuid.NewString()
	c := chat.Chat{ID: id, Name: "General", Members: []string{"alice", "bob"},
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	t.Cleanup(func() { client.Del(ctx, cacheKey(id), generationKey(id)) })

	next.EXPECT().GetChat(gomock.Any(), id).Return(c, nil).Times(1)

	first, err := cache.GetChat(ctx, id)
	req.NoError(err)
	second, err := cache.GetChat(ctx, id)
	req.NoError(err)
	req.Equal(c, first)
	req.Equal(c, second)
}

func TestChatCache_Invalidates_On_Write(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client := setupRedis(t)
	ctrl := gomock.NewController(t)
	next := mocks.NewMockIChatRepository(ctrl)
	cache := NewChatCache(slog.Default(), next, client, time.Minute)

	id := uuid.NewString()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	before := chat.Chat{ID: id, Name: "General", Members: []string{"alice"}}
	after := before
	after.LatestMessageID = "m1"
	t.Cleanup(func() { client.Del(ctx, cacheKey(id), generationKey(id)) })

	gomock.InOrder(
		next.EXPECT().GetChat(gomock.Any(), id).Return(before, nil),
		next.EXPECT().SetLatestMessage(gomock.Any(), id, "m1", at).Return(nil),
		next.EXPECT().GetChat(gomock.Any(), id).Return(after, nil),
	)

	_, err := cache.GetChat(ctx, id)
	req.NoError(err)
	req.NoError(cache.SetLatestMessage(ctx, id, "m1", at))

	fetched, err := cache.GetChat(ctx, id)
	req.NoError(err)
	req.Equal("m1", fetched.LatestMessageID)
}

func TestChatCache_Does_Not_Cache_Errors(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client := setupRedis(t)
	ctrl := gomock.NewController(t)
	next := mocks.NewMockIChatRepository(ctrl)
	cache := NewChatCache(slog.Default(), next, client, time.Minute)

	id := uuid.NewString()
	next.EXPECT().GetChat(gomock.Any(), id).Return(chat.Chat{}, errors.NotFound("chat %s", id)).Times(2)

	_, err := cache.GetChat(ctx, id)
	req.ErrorIs(err, errors.ErrNotFound)
	_, err = cache.GetChat(ctx, id)
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestChatCache_Falls_Back_When_Redis_Is_Down(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	ctrl := gomock.NewController(t)
	next := mocks.NewMockIChatRepository(ctrl)
	cache := NewChatCache(slog.Default(), next, client, time.Minute)

	c := chat.Chat{ID: "general", Name: "General", Members: []string{"alice"}}
	next.EXPECT().GetChat(gomock.Any(), "general").Return(c, nil).Times(2)
	next.EXPECT().SaveChat(gomock.Any(), c).Return(nil).Times(1)

	fetched, err := cache.GetChat(ctx, "general")
	req.NoError(err)
	req.Equal(c, fetched)
	req.NoError(cache.SaveChat(ctx, c))
	_, err = cache.GetChat(ctx, "general")
	req.NoError(err)
}

func TestChatCache_Skips_Fill_Invalidated_During_Fetch(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client := setupRedis(t)
	ctrl := gomock.NewController(t)
	next := mocks.NewMockIChatRepository(ctrl)
	cache := NewChatCache(slog.Default(), next, client, time.Minute)

	id := uuid.NewString()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	stale := chat.Chat{ID: id, Name: "General", Members: []string{"alice"}, LatestMessageID: "m1"}
	fresh := stale
	fresh.LatestMessageID = "m2"
	t.Cleanup(func() { client.Del(ctx, cacheKey(id), generationKey(id)) })

	gomock.InOrder(
		// A writer moves the pointer while the reader is still fetching the old chat.
		next.EXPECT().GetChat(gomock.Any(), id).DoAndReturn(func(ctx context.Context, chatID string) (chat.Chat, error) {
			req.NoError(cache.SetLatestMessage(ctx, chatID, "m2", at))
			return stale, nil
		}),
		next.EXPECT().SetLatestMessage(gomock.Any(), id, "m2", at).Return(nil),
		next.EXPECT().GetChat(gomock.Any(), id).Return(fresh, nil),
	)

	first, err := cache.GetChat(ctx, id)
	req.NoError(err)
	req.Equal("m1", first.LatestMessageID)

	exists, err := client.Exists(ctx, cacheKey(id)).Result()
	req.NoError(err)
	req.Zero(exists)

	second, err := cache.GetChat(ctx, id)
	req.NoError(err)
	req.Equal("m2", second.LatestMessageID)
}

func TestChatCache_ReplaceLatestMessage_Invalidates_Only_When_Replaced(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client := setupRedis(t)
	ctrl := gomock.NewController(t)
	next := mocks.NewMockIChatRepository(ctrl)
	cache := NewChatCache(slog.Default(), next, client, time.Minute)

	id := uuid.NewString()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c := chat.Chat{ID: id, Name: "General", Members: []string{"alice"}, LatestMessageID: "m1"}
	t.Cleanup(func() { client.Del(ctx, cacheKey(id), generationKey(id)) })

	gomock.InOrder(
		next.EXPECT().GetChat(gomock.Any(), id).Return(c, nil),
		next.EXPECT().ReplaceLatestMessage(gomock.Any(), id, "other", "", at).Return(false, nil),
		next.EXPECT().ReplaceLatestMessage(gomock.Any(), id, "m1", "", at).Return(true, nil),
	)

	_, err := cache.GetChat(ctx, id)
	req.NoError(err)

	replaced, err := cache.ReplaceLatestMessage(ctx, id, "other", "", at)
	req.NoError(err)
	req.False(replaced)
	exists, err := client.Exists(ctx, cacheKey(id)).Result()
	req.NoError(err)
	req.Equal(int64(1), exists)

	replaced, err = cache.ReplaceLatestMessage(ctx, id, "m1", "", at)
	req.NoError(err)
	req.True(replaced)
	exists, err = client.Exists(ctx, cacheKey(id)).Result()
	req.NoError(err)
	req.Zero(exists)
}
