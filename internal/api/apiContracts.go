package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SessionId string            `json:"session_id" example:"5f0c9c3e-1b7a-4c56-9a53-2f1f4e0f7b11"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status string          `json:"status" example:"COMPLETE"`
	Step   string          `json:"step,omitempty" example:"Complete"`
	Answer *AnswerResponse `json:"answer,omitempty"`
	Ingest *IngestResponse `json:"ingest,omitempty"`
}

type AnswerResponse struct {
	Question string `json:"question" example:"What are cats?"`
	Answer   string `json:"answer"`
	Kind     string `json:"kind" example:"DirectAnswer"`
}

type IngestResponse struct {
	Message   string             `json:"message"`
	Documents []DocumentResponse `json:"documents"`
}

type DocumentResponse struct {
	Name          string `json:"name" example:"report.pdf"`
	Size          string `json:"size" example:"12 KiB"`
	SizeBytes     int64  `json:"size_bytes" example:"12288"`
	Type          string `json:"type" example:"PDF"`
	MimeHint      string `json:"mime_hint,omitempty" example:"application/pdf"`
	Strategy      string `json:"strategy,omitempty" example:"marker_scan"`
	ContentLength int    `json:"content_length" example:"5120"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}

type SessionResponse struct {
	SessionId     string             `json:"session_id"`
	CreatedAt     time.Time          `json:"created_at"`
	DocumentCount int                `json:"document_count" example:"2"`
	DocumentLabel string             `json:"document_label" example:"2 documents loaded"`
	Documents     []DocumentResponse `json:"documents"`
	CorpusLength  int                `json:"corpus_length"`
	Busy          bool               `json:"busy"`
}

type TextResponse struct {
	Document DocumentResponse `json:"document"`
	Message  string           `json:"message"`
}

type MessageResponse struct {
	Sender string    `json:"sender" example:"bot"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

type MessagesResponse struct {
	SessionId string            `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type TextRequest struct {
	Text string `json:"text" validate:"required"`
}
