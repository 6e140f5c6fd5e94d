// Package job owns the queue between request handlers and the worker pool.
package job

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/internal/metrics"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

type Service struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	MessageStore      jobModel.MessageStore

	requestCount int64
	logger       *logger_i.Logger
}

// NewService builds the queue with a job buffer of bufferLimit and a single pending dispatcher signal.
func NewService(jobStore jobModel.JobStore, messageStore jobModel.MessageStore, bufferLimit int) *Service {
	return &Service{
		JobChannel:        make(chan jobModel.Job, bufferLimit),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          jobStore,
		MessageStore:      messageStore,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// Enqueue records the job as queued and hands it to the workers. A full buffer blocks the caller.
func (s *Service) Enqueue(ctx context.Context, newJob jobModel.Job) {
	log := s.log().WithTrace(ctx).With("job id", newJob.Id)
	newJob.Status = jobModel.JobStatusQueued
	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		log.Error("Failed to save queued job", "err", err)
	}

	metrics.IncrementJobsInQueue()
	s.JobChannel <- newJob
	log.Info("Queued job", "type", newJob.JobType)

	//a new worker joins every RequestsPerNewWorkerCount requests, and for every ingest job since
	//extraction is the slow path; idle workers retire on their own
	count := atomic.AddInt64(&s.requestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 || newJob.JobType == jobModel.JobTypeIngest {
		s.signalDispatcher(log, count)
	}
}

func (s *Service) Status(ctx context.Context, id string) (jobModel.Job, bool) {
	return s.JobStore.GetJob(ctx, id)
}

func (s *Service) signalDispatcher(log *logger_i.Logger, count int64) {
	metrics.StartDispatcherSignalCount()
	select {
	case s.DispatcherChannel <- true:
		log.Debug("Signalled dispatcher", "requestCount", count)
	default:
		log.Debug("Dispatcher already signalled")
	}
}

// log tolerates a Service built as a literal, as tests do.
func (s *Service) log() *logger_i.Logger {
	if s.logger == nil {
		return logger_i.NewLogger("JobService")
	}
	return s.logger
}
