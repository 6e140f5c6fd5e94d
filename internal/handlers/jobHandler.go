package handlers

import (
	"context"
	"sync"

	"github.com/akolanti/DocChat/internal/docqa"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/internal/job"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
	docs    docqa.Service
}

func InitJobHandler(jobService *job.Service, docService docqa.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, docs: docService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(ctx context.Context, newJob jobModel.Job) {
	logJH.WithTrace(ctx).Info("To create new job", "job id", newJob.Id, "type", newJob.JobType)
	handlerInstance.service.Enqueue(ctx, newJob)
}

func GetJobStatus(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if handlerInstance != nil {
		return handlerInstance.service.Status(ctx, id)
	}
	return result, false
}
