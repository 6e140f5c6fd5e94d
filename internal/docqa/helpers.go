package docqa

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/DocChat/internal/docqa/answer"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

// Delay stands in for the latency of a real answering backend.
type Delay func(ctx context.Context) error

func NoDelay(context.Context) error { return nil }

// RandomDelay waits a uniformly random duration in [lo, hi], or until ctx is done.
func RandomDelay(lo, hi time.Duration) Delay {
	return func(ctx context.Context) error {
		wait := lo
		if hi > lo {
			wait += rand.N(hi - lo + 1)
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WelcomeMessage describes every document the session now holds.
func WelcomeMessage(docs []docModel.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I've successfully processed %d document(s). ", len(docs))
	if pdfs := countPDFUploads(docs); pdfs > 0 {
		fmt.Fprintf(&b, "Including %d PDF file(s) with improved text extraction. ", pdfs)
	}
	b.WriteString("You can now ask me questions about the content!")
	return b.String()
}

// a document counts as a PDF if it was declared or named as one, even when read as text
func countPDFUploads(docs []docModel.Document) int {
	count := 0
	for _, doc := range docs {
		if doc.IsPDF() || doc.MimeHint == docModel.MimePDF || strings.HasSuffix(strings.ToLower(doc.Name), ".pdf") {
			count++
		}
	}
	return count
}

// readStaged reads every staged file or none: one failure fails the batch.
func readStaged(files []jobModel.IngestFile) ([][]byte, error) {
	contents := make([][]byte, len(files))
	for i, file := range files {
		data, err := os.ReadFile(filepath.Clean(file.Path))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableInput, file.Name, err)
		}
		contents[i] = data
	}
	return contents, nil
}

func removeStaged(files []jobModel.IngestFile, log *logger_i.Logger) {
	for _, file := range files {
		if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
			log.Error("Error removing staged file", "path", file.Path, "error", err)
		}
	}
}

func returnOutput(job jobModel.Job, res answer.Response) jobModel.Job {
	job.JobPayload.Answer = res.Text
	job.JobPayload.AnswerKind = string(res.Kind)
	job.CurrentStep = jobModel.Complete
	return job
}

func logStep(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("Job step", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, code int, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "jobId", job.Id, "error", err)

	job.Error = jobModel.JobError{
		Code:    code,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}
