package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/akolanti/DocChat/internal/domain/docModel"
)

type InMemoryMessageStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]docModel.ChatMessage
}

func InitMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]docModel.ChatMessage),
	}
}

func (store *InMemoryMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryMessageStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]docModel.ChatMessage, 0)
	return nil
}

func (store *InMemoryMessageStore) AppendMessage(ctx context.Context, id string, message docModel.ChatMessage) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	history, ok := store.chatMap[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChat, id)
	}
	store.chatMap[id] = append(history, message)
	inMemLogger.WithTrace(ctx).Debug("Saved message to chat store", "chatId", id, "sender", message.Sender)
	return nil
}

func (store *InMemoryMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]docModel.ChatMessage, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	history := store.chatMap[chatId]
	out := make([]docModel.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}

func (store *InMemoryMessageStore) DeleteChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	delete(store.chatMap, id)
	return nil
}
