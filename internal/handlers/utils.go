package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocChat/internal/adapter"
	"github.com/akolanti/DocChat/internal/adapter/utils"
	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/docqa"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone, nothing left but to log
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.WithTrace(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// writeServiceError maps docqa errors onto the job error envelope.
func writeServiceError(ctx context.Context, w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, docqa.ErrSessionNotFound):
		WriteErrorResponse(w, http.StatusNotFound, id, "Session not found")
	case errors.Is(err, docqa.ErrBusy):
		WriteErrorResponse(w, http.StatusConflict, id, "Documents are still being processed")
	case errors.Is(err, docqa.ErrUnsupportedType):
		WriteErrorResponse(w, http.StatusBadRequest, id, docqa.UnsupportedTypeMessage)
	case errors.Is(err, docqa.ErrEmptyText):
		WriteErrorResponse(w, http.StatusBadRequest, id, "Please enter some text to process.")
	case errors.Is(err, docqa.ErrEmptyQuestion):
		WriteErrorResponse(w, http.StatusBadRequest, id, "Message is required")
	default:
		logRH.WithTrace(ctx).Error("Unhandled service error", "id", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Internal Server Error")
	}
}

func getTargetDirectory() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", err
	}

	targetDir := filepath.Join(root, config.StagingDirName)
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", err
	}
	return targetDir, nil
}

func traceId(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func newJob(ctx context.Context, sessionId string, jobType jobModel.JobType) jobModel.Job {
	j := jobModel.Job{
		Id:          utils.GetNewUUID(),
		SessionId:   sessionId,
		TraceId:     traceId(ctx),
		JobType:     jobType,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
	}
	if jobType == jobModel.JobTypeIngest {
		j.CurrentStep = jobModel.IngestInit
	} else {
		j.CurrentStep = jobModel.UserQueryInit
	}
	return j
}
