package docqa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/docqa/answer"
	"github.com/akolanti/DocChat/internal/docqa/session"
	"github.com/akolanti/DocChat/internal/docqa/textkit"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/internal/metrics"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBusy            = errors.New("session is already processing documents")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyText       = errors.New("text is empty")
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrUnreadableInput = errors.New("unreadable input")
	ErrInterrupted     = errors.New("answer interrupted")
)

const (
	UnsupportedTypeMessage = "Please upload only PDF or TXT files."
	IngestErrorMessage     = "Error processing files. Please try again."
	PasteWelcomeMessage    = "I've processed your text content. You can now ask me questions about it!"
	AnswerErrorMessage     = "Sorry, I encountered an error processing your question. Please try again."
)

// TextExtractor turns raw upload bytes into text and names the strategy that produced it.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, docType docModel.DocType) (string, string)
}

// Service is the only thing handlers, workers and MCP tools talk to. Sessions, extraction and
// the chat log stay behind it.
type Service interface {
	CreateSession(ctx context.Context) (*session.Session, error)
	GetSession(id string) (*session.Session, error)
	RemoveSession(ctx context.Context, id string) error
	ClearDocuments(ctx context.Context, id string) error

	BeginIngest(id string) (*session.Session, error)
	EndIngest(id string)
	IngestDocuments(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestText(ctx context.Context, id string, text string) (docModel.Document, string, error)

	Ask(ctx context.Context, id string, question string) (answer.Response, error)
	AnswerQuestion(ctx context.Context, job jobModel.Job) jobModel.Job
	Messages(ctx context.Context, id string) ([]docModel.ChatMessage, error)
}

type service struct {
	sessions  *session.Registry
	extractor TextExtractor
	messages  jobModel.MessageStore
	delay     Delay
	logger    *logger_i.Logger
}

// NewService wires the collaborators. A nil delay means answers are immediate.
func NewService(extractor TextExtractor, messages jobModel.MessageStore, delay Delay) Service {
	if delay == nil {
		delay = NoDelay
	}
	return &service{
		sessions:  session.NewRegistry(),
		extractor: extractor,
		messages:  messages,
		delay:     delay,
		logger:    logger_i.NewLogger("DocQA Service"),
	}
}

func (s *service) CreateSession(ctx context.Context) (*session.Session, error) {
	sess := s.sessions.Create()
	if err := s.messages.InitNewChat(ctx, sess.Id); err != nil {
		s.sessions.Remove(sess.Id)
		return nil, fmt.Errorf("init chat log: %w", err)
	}
	metrics.SetActiveSessions(s.sessions.Count())
	s.logger.WithTrace(ctx).Info("Session created", "sessionId", sess.Id)
	return sess, nil
}

func (s *service) GetSession(id string) (*session.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *service) RemoveSession(ctx context.Context, id string) error {
	if !s.sessions.Remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	metrics.SetActiveSessions(s.sessions.Count())
	if err := s.messages.DeleteChat(ctx, id); err != nil {
		s.logger.WithTrace(ctx).Warn("Failed to delete chat log", "sessionId", id, "error", err)
	}
	return nil
}

// ClearDocuments empties the collection, the corpus and the chat log.
func (s *service) ClearDocuments(ctx context.Context, id string) error {
	sess, err := s.GetSession(id)
	if err != nil {
		return err
	}
	sess.Clear()
	if err := s.messages.DeleteChat(ctx, id); err != nil {
		return fmt.Errorf("clear chat log: %w", err)
	}
	return s.messages.InitNewChat(ctx, id)
}

// BeginIngest takes the session's busy flag for an upload batch. The worker releases it.
func (s *service) BeginIngest(id string) (*session.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if !sess.TryAcquire() {
		metrics.CaptureIngestRejected("busy")
		return nil, fmt.Errorf("%w: %s", ErrBusy, id)
	}
	return sess, nil
}

// EndIngest releases the busy flag when a batch never reached a worker.
func (s *service) EndIngest(id string) {
	if sess, ok := s.sessions.Get(id); ok {
		sess.Release()
	}
}

func (s *service) IngestDocuments(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	log := s.logger.WithTrace(ctx).With("jobId", job.Id, "sessionId", job.SessionId)
	files := job.JobPayload.IngestFiles
	defer removeStaged(files, log)

	sess, err := s.GetSession(job.SessionId)
	if err != nil {
		return s.jobError(job, err, http.StatusNotFound, "Session not found", false)
	}
	defer sess.Release()

	job = logStep(job, jobModel.IngestReading, log)
	contents, err := readStaged(files)
	if err != nil {
		metrics.CaptureIngestRejected("unreadable")
		s.appendMessage(ctx, job.SessionId, docModel.SenderBot, IngestErrorMessage)
		return s.jobError(job, err, http.StatusUnprocessableEntity, IngestErrorMessage, true)
	}

	job = logStep(job, jobModel.IngestProcessing, log)
	docs := make([]docModel.Document, 0, len(files))
	for i, file := range files {
		if file.DocType != docModel.TXT && file.DocType != docModel.PDF {
			log.Warn("Skipping staged file of unsupported type", "file", file.Name)
			continue
		}
		text, strategy := s.extractor.Extract(ctx, contents[i], file.DocType)
		metrics.CaptureExtraction(strategy)
		metrics.CaptureDocumentIngested(string(file.DocType))
		docs = append(docs, docModel.Document{
			Name:       file.Name,
			SizeBytes:  file.SizeBytes,
			Content:    text,
			MimeHint:   file.MimeHint,
			Type:       file.DocType,
			Strategy:   strategy,
			IngestedAt: time.Now(),
		})
		log.Debug("Document extracted", "file", file.Name, "strategy", strategy, "length", len(text))
	}
	sess.Append(docs...)

	welcome := WelcomeMessage(sess.Documents())
	s.appendMessage(ctx, job.SessionId, docModel.SenderBot, welcome)

	infos := make([]docModel.DocumentInfo, len(docs))
	for i, doc := range docs {
		infos[i] = doc.Info()
	}
	job.JobPayload.Documents = infos
	job.JobPayload.IngestMessage = welcome
	job.CurrentStep = jobModel.Complete
	log.Info("Documents ingested", "count", len(docs), "corpusLength", len(sess.Corpus()))
	return job
}

func (s *service) IngestText(ctx context.Context, id string, text string) (docModel.Document, string, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return docModel.Document{}, "", err
	}
	text = textkit.Trim(text)
	if text == "" {
		metrics.CaptureIngestRejected("empty_text")
		return docModel.Document{}, "", ErrEmptyText
	}
	if !sess.TryAcquire() {
		metrics.CaptureIngestRejected("busy")
		return docModel.Document{}, "", fmt.Errorf("%w: %s", ErrBusy, id)
	}
	defer sess.Release()

	doc := docModel.Document{
		Name:       config.PastedTextName,
		SizeBytes:  int64(len(text)),
		Content:    text,
		MimeHint:   docModel.MimeTextPlain,
		Type:       docModel.TXT,
		IngestedAt: time.Now(),
	}
	sess.Append(doc)
	metrics.CaptureDocumentIngested(string(docModel.TXT))
	s.appendMessage(ctx, id, docModel.SenderBot, PasteWelcomeMessage)
	return doc, PasteWelcomeMessage, nil
}

// Ask records the question, waits out the delay and answers from the corpus as it was when the
// question arrived. An empty corpus is answered at once.
func (s *service) Ask(ctx context.Context, id string, question string) (answer.Response, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return answer.Response{}, err
	}
	question = textkit.Trim(question)
	if question == "" {
		return answer.Response{}, ErrEmptyQuestion
	}
	s.appendMessage(ctx, id, docModel.SenderUser, question)

	corpus := sess.Corpus()
	if corpus != "" {
		if err := s.delay(ctx); err != nil {
			s.appendMessage(ctx, id, docModel.SenderBot, AnswerErrorMessage)
			return answer.Response{}, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
	}

	start := time.Now()
	res := answer.Answer(question, corpus)
	metrics.CaptureExecutionMetrics("answer", time.Since(start))
	metrics.CaptureAnswer(string(res.Kind))
	s.appendMessage(ctx, id, docModel.SenderBot, res.Text)
	s.logger.WithTrace(ctx).Debug("Question answered", "sessionId", id, "kind", res.Kind)
	return res, nil
}

func (s *service) AnswerQuestion(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id, "sessionId", job.SessionId)
	job = logStep(job, jobModel.Thinking, log)

	res, err := s.Ask(ctx, job.SessionId, job.JobPayload.Question)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return s.jobError(job, err, http.StatusNotFound, "Session not found", false)
	case errors.Is(err, ErrEmptyQuestion):
		return s.jobError(job, err, http.StatusBadRequest, "Question is empty", false)
	case err != nil:
		return s.jobError(job, err, http.StatusInternalServerError, AnswerErrorMessage, true)
	}

	job = logStep(job, jobModel.Answering, log)
	return returnOutput(job, res)
}

func (s *service) Messages(ctx context.Context, id string) ([]docModel.ChatMessage, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	return s.messages.GetMessageHistory(ctx, id)
}

// the chat log is for display only; a failed write never fails the operation
func (s *service) appendMessage(ctx context.Context, id string, sender docModel.Sender, text string) {
	message := docModel.ChatMessage{Sender: sender, Text: text, SentAt: time.Now()}
	if err := s.messages.AppendMessage(ctx, id, message); err != nil {
		s.logger.WithTrace(ctx).Error("Failed to save chat message", "sessionId", id, "error", err)
	}
}
