package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/DocChat/internal/domain/docModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit InternalStatus = "Init"
	Thinking      InternalStatus = "Thinking"
	Answering     InternalStatus = "Answering"
	RedisCall     InternalStatus = "Redis"

	IngestInit       InternalStatus = "IngestInit"
	IngestReading    InternalStatus = "IngestReading"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	SessionId   string         `json:"session_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question   string `json:"question,omitempty"`
	Answer     string `json:"answer,omitempty"`
	AnswerKind string `json:"answer_kind,omitempty"`

	IngestFiles   []IngestFile            `json:"ingest_files,omitempty"`
	Documents     []docModel.DocumentInfo `json:"documents,omitempty"`
	IngestMessage string                  `json:"ingest_message,omitempty"`
}

// IngestFile is an upload staged on disk until its ingest job runs.
type IngestFile struct {
	Name      string           `json:"name"`
	Path      string           `json:"path"`
	SizeBytes int64            `json:"size_bytes"`
	MimeHint  string           `json:"mime_hint"`
	DocType   docModel.DocType `json:"doc_type"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// MessageStore keeps the per-session chat log.
type MessageStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	InitNewChat(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, id string, message docModel.ChatMessage) error
	GetMessageHistory(ctx context.Context, id string) ([]docModel.ChatMessage, error)
	DeleteChat(ctx context.Context, id string) error
}
