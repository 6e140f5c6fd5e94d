package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/data/redisStore"
	"github.com/akolanti/DocChat/internal/data/store"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func messageStores(t *testing.T) map[string]jobModel.MessageStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]jobModel.MessageStore{
		"redis":    store.TestMessageStore(redisStore.NewTestStore(client)),
		"inMemory": store.InitMessageStore(),
	}
}

func TestMessageStore_Lifecycle(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "chat-trace")
	sentAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, messageStore := range messageStores(t) {
		t.Run(name, func(t *testing.T) {
			if messageStore.ValidateChatId(ctx, "s1") {
				t.Fatal("chat should not exist before InitNewChat")
			}
			if err := messageStore.InitNewChat(ctx, "s1"); err != nil {
				t.Fatalf("InitNewChat failed: %v", err)
			}
			if !messageStore.ValidateChatId(ctx, "s1") {
				t.Fatal("chat should exist after InitNewChat")
			}

			history, err := messageStore.GetMessageHistory(ctx, "s1")
			if err != nil || len(history) != 0 {
				t.Fatalf("fresh history = %v, %v", history, err)
			}

			messages := []docModel.ChatMessage{
				{Sender: docModel.SenderUser, Text: "What are cats?", SentAt: sentAt},
				{Sender: docModel.SenderBot, Text: "Cats are mammals.", SentAt: sentAt},
			}
			for _, m := range messages {
				if err := messageStore.AppendMessage(ctx, "s1", m); err != nil {
					t.Fatalf("AppendMessage failed: %v", err)
				}
			}

			history, err = messageStore.GetMessageHistory(ctx, "s1")
			if err != nil {
				t.Fatalf("GetMessageHistory failed: %v", err)
			}
			if len(history) != 2 {
				t.Fatalf("history length = %d, want 2", len(history))
			}
			for i := range messages {
				if history[i].Sender != messages[i].Sender || history[i].Text != messages[i].Text || !history[i].SentAt.Equal(sentAt) {
					t.Errorf("history[%d] = %+v, want %+v", i, history[i], messages[i])
				}
			}

			if err := messageStore.DeleteChat(ctx, "s1"); err != nil {
				t.Fatalf("DeleteChat failed: %v", err)
			}
			if messageStore.ValidateChatId(ctx, "s1") {
				t.Error("chat still valid after DeleteChat")
			}
		})
	}
}

func TestMessageStore_UnknownChat(t *testing.T) {
	ctx := context.Background()
	for name, messageStore := range messageStores(t) {
		t.Run(name, func(t *testing.T) {
			err := messageStore.AppendMessage(ctx, "ghost", docModel.ChatMessage{Sender: docModel.SenderUser, Text: "hi"})
			if !errors.Is(err, store.ErrUnknownChat) {
				t.Errorf("err = %v, want ErrUnknownChat", err)
			}
		})
	}
}

func TestRedisMessageStore_ExpiresChat(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	messageStore := store.TestMessageStore(redisStore.NewTestStore(client))
	ctx := context.Background()

	if err := messageStore.InitNewChat(ctx, "s2"); err != nil {
		t.Fatalf("InitNewChat failed: %v", err)
	}
	if err := messageStore.AppendMessage(ctx, "s2", docModel.ChatMessage{Sender: docModel.SenderBot, Text: "welcome"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if ttl := mr.TTL("chat:s2"); ttl != config.RedisMessageStoreTTL {
		t.Errorf("list TTL = %v, want %v", ttl, config.RedisMessageStoreTTL)
	}

	mr.FastForward(config.RedisMessageStoreTTL + time.Second)
	if messageStore.ValidateChatId(ctx, "s2") {
		t.Error("chat should have expired")
	}
}

func TestRedisMessageStore_ActiveChatOutlivesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	messageStore := store.TestMessageStore(redisStore.NewTestStore(client))
	ctx := context.Background()
	almostExpired := config.RedisMessageStoreTTL - time.Hour

	if err := messageStore.InitNewChat(ctx, "s3"); err != nil {
		t.Fatalf("InitNewChat failed: %v", err)
	}

	mr.FastForward(almostExpired)
	if err := messageStore.AppendMessage(ctx, "s3", docModel.ChatMessage{Sender: docModel.SenderUser, Text: "first"}); err != nil {
		t.Fatalf("AppendMessage before expiry failed: %v", err)
	}
	if ttl := mr.TTL("chat:s3:open"); ttl != config.RedisMessageStoreTTL {
		t.Errorf("marker TTL after append = %v, want %v", ttl, config.RedisMessageStoreTTL)
	}

	// past the original expiry of the marker
	mr.FastForward(2 * time.Hour)
	if !messageStore.ValidateChatId(ctx, "s3") {
		t.Fatal("chat with recent activity should still exist")
	}
	if err := messageStore.AppendMessage(ctx, "s3", docModel.ChatMessage{Sender: docModel.SenderBot, Text: "second"}); err != nil {
		t.Fatalf("AppendMessage after original expiry failed: %v", err)
	}

	history, err := messageStore.GetMessageHistory(ctx, "s3")
	if err != nil {
		t.Fatalf("GetMessageHistory failed: %v", err)
	}
	if len(history) != 2 || history[0].Text != "first" || history[1].Text != "second" {
		t.Errorf("history = %+v", history)
	}
}
