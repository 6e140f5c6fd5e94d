package docqa_test

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/DocChat/internal/domain/docModel"
)

// MockMessageStore implements jobModel.MessageStore
type MockMessageStore struct {
	OnAppendMessage     func(ctx context.Context, id string, message docModel.ChatMessage) error
	OnGetMessageHistory func(ctx context.Context, id string) ([]docModel.ChatMessage, error)
}

func (m *MockMessageStore) ValidateChatId(ctx context.Context, id string) bool {
	return true
}

func (m *MockMessageStore) InitNewChat(ctx context.Context, id string) error {
	return nil
}

func (m *MockMessageStore) AppendMessage(ctx context.Context, id string, message docModel.ChatMessage) error {
	if m.OnAppendMessage != nil {
		return m.OnAppendMessage(ctx, id, message)
	}
	return nil
}

func (m *MockMessageStore) GetMessageHistory(ctx context.Context, id string) ([]docModel.ChatMessage, error) {
	if m.OnGetMessageHistory != nil {
		return m.OnGetMessageHistory(ctx, id)
	}
	return nil, nil
}

func (m *MockMessageStore) DeleteChat(ctx context.Context, id string) error {
	return nil
}

// MockExtractor implements docqa.TextExtractor
type MockExtractor struct {
	OnExtract func(ctx context.Context, data []byte, docType docModel.DocType) (string, string)
}

func (m *MockExtractor) Extract(ctx context.Context, data []byte, docType docModel.DocType) (string, string) {
	if m.OnExtract != nil {
		return m.OnExtract(ctx, data, docType)
	}
	return string(data), "mock"
}

// countingDelay records how often the answer delay ran.
type countingDelay struct {
	calls int32
	err   error
}

func (d *countingDelay) Wait(ctx context.Context) error {
	atomic.AddInt32(&d.calls, 1)
	return d.err
}

func (d *countingDelay) Calls() int32 {
	return atomic.LoadInt32(&d.calls)
}
