package worker

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocChat/internal/config"
	jobmodel "github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	log := logger.WithTrace(ctx)
	log.Debug("Processing job", "jobId", job.Id, "type", job.JobType)

	job = saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job = _docService.IngestDocuments(ctx, job)
	case jobmodel.JobTypeQuery:
		job = _docService.AnswerQuestion(ctx, job)
	default:
		log.Error("Unknown job type", "jobId", job.Id, "type", job.JobType)
		job.Error = jobmodel.JobError{Code: http.StatusBadRequest, Message: "Unknown job type"}
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
	}

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		job = saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}
	job = saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {
	atomic.AddInt64(&currentWorkerCount, -1)
	workerExit(reason)
}

// workerExit is for workers already taken off currentWorkerCount.
func workerExit(reason string) {
	workerWaitGroup.Done()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) jobmodel.Job {
	job.Status = jobStatus
	// the job outlives a timed out ctx; its final state still has to land
	saveCtx := context.WithoutCancel(ctx)
	if err := _jobService.JobStore.SaveJob(saveCtx, job); err != nil {
		logger.WithTrace(ctx).Error("Failed to update job state", "jobId", job.Id, "err", err)
	}
	return job
}
