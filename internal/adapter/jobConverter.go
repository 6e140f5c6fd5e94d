package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocChat/internal/api"
	"github.com/akolanti/DocChat/internal/docqa/session"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/dustin/go-humanize"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Step:   string(job.CurrentStep),
	}
	switch job.JobType {
	case jobModel.JobTypeQuery:
		result.Answer = ToAnswerResponse(job.JobPayload)
	case jobModel.JobTypeIngest:
		result.Ingest = ToIngestResponse(job.JobPayload)
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.SessionId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToAnswerResponse(payload jobModel.JobPayload) *api.AnswerResponse {
	if payload.Answer == "" {
		return nil
	}
	return &api.AnswerResponse{
		Question: payload.Question,
		Answer:   payload.Answer,
		Kind:     payload.AnswerKind,
	}
}

func ToIngestResponse(payload jobModel.JobPayload) *api.IngestResponse {
	if payload.IngestMessage == "" && len(payload.Documents) == 0 {
		return nil
	}
	docs := make([]api.DocumentResponse, len(payload.Documents))
	for i, info := range payload.Documents {
		docs[i] = ToDocumentResponse(info)
	}
	return &api.IngestResponse{
		Message:   payload.IngestMessage,
		Documents: docs,
	}
}

func ToDocumentResponse(info docModel.DocumentInfo) api.DocumentResponse {
	return api.DocumentResponse{
		Name:          info.Name,
		Size:          humanize.IBytes(uint64(max(info.SizeBytes, 0))),
		SizeBytes:     info.SizeBytes,
		Type:          string(info.Type),
		MimeHint:      info.MimeHint,
		Strategy:      info.Strategy,
		ContentLength: info.ContentLength,
	}
}

func ToSessionResponse(sess *session.Session) api.SessionResponse {
	docs := sess.Documents()
	out := make([]api.DocumentResponse, len(docs))
	for i, doc := range docs {
		out[i] = ToDocumentResponse(doc.Info())
	}
	return api.SessionResponse{
		SessionId:     sess.Id,
		CreatedAt:     sess.CreatedAt,
		DocumentCount: len(docs),
		DocumentLabel: DocumentCountLabel(len(docs)),
		Documents:     out,
		CorpusLength:  len(sess.Corpus()),
		Busy:          sess.Busy(),
	}
}

// DocumentCountLabel reads "1 document loaded" or "N documents loaded".
func DocumentCountLabel(count int) string {
	if count == 1 {
		return "1 document loaded"
	}
	return fmt.Sprintf("%d documents loaded", count)
}

func ToMessagesResponse(sessionId string, messages []docModel.ChatMessage) api.MessagesResponse {
	out := make([]api.MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = api.MessageResponse{Sender: string(m.Sender), Text: m.Text, SentAt: m.SentAt}
	}
	return api.MessagesResponse{SessionId: sessionId, Messages: out}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
