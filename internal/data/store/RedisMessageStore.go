package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/data/redisStore"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

type RedisMessageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisMessageStore returns nil when redis is offline so callers can fall back.
func GetRedisMessageStore(ctx context.Context) *RedisMessageStore {
	s := redisStore.GetRedisStore(ctx, config.RedisMessageStore)
	if s == nil {
		return nil
	}
	return &RedisMessageStore{
		store:  s,
		logger: logger_i.NewLogger("MessageStore"),
	}
}

func chatKey(id string) string {
	return "chat:" + id
}

// the list itself vanishes when empty, so a marker key records that the chat exists
func chatMarkerKey(id string) string {
	return "chat:" + id + ":open"
}

func (s *RedisMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.WithTrace(ctx).With("chat Id", chatId)
	log.Debug("validating chatId")
	isFound, err := s.store.Exists(ctx, chatMarkerKey(chatId))
	if err != nil {
		log.Error("Failed to check if chatId exists", "err", err)
		return false
	}
	return isFound
}

func (s *RedisMessageStore) InitNewChat(ctx context.Context, id string) error {
	log := s.logger.WithTrace(ctx).With("chat Id", id)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, chatKey(id)); err != nil {
		return fmt.Errorf("reset chat %s: %w", id, err)
	}
	return s.store.Set(ctx, chatMarkerKey(id), "1", config.RedisMessageStoreTTL)
}

func (s *RedisMessageStore) AppendMessage(ctx context.Context, id string, message docModel.ChatMessage) error {
	log := s.logger.WithTrace(ctx).With("chat Id", id)
	if !s.ValidateChatId(ctx, id) {
		log.Error("Failed Validation before saving", "err", ErrUnknownChat)
		return fmt.Errorf("%w: %s", ErrUnknownChat, id)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}
	//an active chat keeps its marker alive along with the list
	if err := s.store.ListPush(ctx, chatKey(id), data, config.RedisMessageStoreTTL, chatMarkerKey(id)); err != nil {
		log.Error("error saving chat", "error", err)
		return err
	}
	log.Debug("Saved chat successfully", "sender", message.Sender)
	return nil
}

func (s *RedisMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]docModel.ChatMessage, error) {
	log := s.logger.WithTrace(ctx).With("chat Id", chatId)
	log.Debug("Getting message history")

	res, err := s.store.ListGetAll(ctx, chatKey(chatId))
	if err != nil {
		log.Error("Error getting history", "error", err)
		return nil, err
	}

	messages := make([]docModel.ChatMessage, 0, len(res))
	for _, raw := range res {
		var message docModel.ChatMessage
		if err := json.Unmarshal([]byte(raw), &message); err != nil {
			log.Warn("Skipping unreadable chat entry", "error", err)
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (s *RedisMessageStore) DeleteChat(ctx context.Context, id string) error {
	s.logger.WithTrace(ctx).Debug("Deleting chat", "chat Id", id)
	return s.store.Del(ctx, chatKey(id), chatMarkerKey(id))
}

func TestMessageStore(store *redisStore.Store) *RedisMessageStore {
	return &RedisMessageStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
