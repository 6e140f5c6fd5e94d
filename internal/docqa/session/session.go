// Package session holds the per-user document collection and the corpus derived from it.
package session

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocChat/internal/domain/docModel"
)

const corpusSeparator = "\n\n"

type Session struct {
	Id        string
	CreatedAt time.Time

	mu        sync.RWMutex
	documents []docModel.Document
	corpus    string
	busy      atomic.Bool
}

func New(id string) *Session {
	return &Session{
		Id:        id,
		CreatedAt: time.Now(),
	}
}

// Append adds a batch of documents in one step and rebuilds the corpus.
func (s *Session) Append(docs ...docModel.Document) {
	if len(docs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	documents := make([]docModel.Document, 0, len(s.documents)+len(docs))
	documents = append(documents, s.documents...)
	documents = append(documents, docs...)
	s.documents = documents
	s.corpus = buildCorpus(documents)
}

func buildCorpus(documents []docModel.Document) string {
	contents := make([]string, len(documents))
	for i, doc := range documents {
		contents[i] = doc.Content
	}
	return strings.Join(contents, corpusSeparator)
}

func (s *Session) Documents() []docModel.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docModel.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

func (s *Session) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

func (s *Session) Corpus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
	s.corpus = ""
}

// TryAcquire takes the busy flag. It never waits: false means an ingestion is already running.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Session) Release() {
	s.busy.Store(false)
}

func (s *Session) Busy() bool {
	return s.busy.Load()
}
