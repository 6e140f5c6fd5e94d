package worker

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/docqa/answer"
	"github.com/akolanti/DocChat/internal/docqa/session"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/internal/job"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

// MockDocService tracks which jobs reach the docqa service
type MockDocService struct {
	ProcessedCount    int32
	OnIngestDocuments func(ctx context.Context, j jobModel.Job) jobModel.Job
	OnAnswerQuestion  func(ctx context.Context, j jobModel.Job) jobModel.Job
}

func (m *MockDocService) CreateSession(ctx context.Context) (*session.Session, error) {
	return session.New("mock"), nil
}

func (m *MockDocService) GetSession(id string) (*session.Session, error) {
	return session.New(id), nil
}

func (m *MockDocService) RemoveSession(ctx context.Context, id string) error { return nil }

func (m *MockDocService) ClearDocuments(ctx context.Context, id string) error { return nil }

func (m *MockDocService) BeginIngest(id string) (*session.Session, error) {
	return session.New(id), nil
}

func (m *MockDocService) EndIngest(id string) {}

func (m *MockDocService) IngestDocuments(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnIngestDocuments != nil {
		return m.OnIngestDocuments(ctx, j)
	}
	return j
}

func (m *MockDocService) IngestText(ctx context.Context, id string, text string) (docModel.Document, string, error) {
	return docModel.Document{}, "", nil
}

func (m *MockDocService) Ask(ctx context.Context, id string, question string) (answer.Response, error) {
	return answer.Response{}, nil
}

func (m *MockDocService) AnswerQuestion(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnAnswerQuestion != nil {
		return m.OnAnswerQuestion(ctx, j)
	}
	return j
}

func (m *MockDocService) Messages(ctx context.Context, id string) ([]docModel.ChatMessage, error) {
	return nil, nil
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

// waitForFinalState returns the first saved state of jobId that is no longer RUNNING
func waitForFinalState(t *testing.T, saved <-chan jobModel.Job, jobId string) jobModel.Job {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case j := <-saved:
			if j.Id == jobId && j.Status != jobModel.JobStatusRunning {
				return j
			}
		case <-timeout:
			t.Fatalf("job %s never reached a final state", jobId)
			return jobModel.Job{}
		}
	}
}

func TestWorkerPool_Flow(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, config.MinWorkerCount)

	saved := make(chan jobModel.Job, 20)
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 1),
		JobStore: &MockJobStore{OnSaveJob: func(ctx context.Context, j jobModel.Job) error {
			saved <- j
			return nil
		}},
	}
	mockDocs := &MockDocService{
		OnAnswerQuestion: func(ctx context.Context, j jobModel.Job) jobModel.Job {
			j.JobPayload.Answer = "an answer"
			j.CurrentStep = jobModel.Complete
			return j
		},
		OnIngestDocuments: func(ctx context.Context, j jobModel.Job) jobModel.Job {
			j.Status = jobModel.JobStatusError
			j.CurrentStep = jobModel.Error
			j.Error = jobModel.JobError{Code: http.StatusUnprocessableEntity, Message: "unreadable", Retry: true}
			return j
		},
	}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockDocs)
	InitWorkerPool(stopChan, wg)

	t.Run("Worker completes a query job", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "query-1", JobType: jobModel.JobTypeQuery}

		final := waitForFinalState(t, saved, "query-1")
		if final.Status != jobModel.JobStatusComplete {
			t.Errorf("status = %s, want %s", final.Status, jobModel.JobStatusComplete)
		}
		if final.JobPayload.Answer != "an answer" {
			t.Errorf("answer = %q", final.JobPayload.Answer)
		}
		if final.EndTime.IsZero() {
			t.Error("EndTime was not set")
		}
	})

	t.Run("Failed ingest keeps its error state", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "ingest-1", JobType: jobModel.JobTypeIngest}

		final := waitForFinalState(t, saved, "ingest-1")
		if final.Status != jobModel.JobStatusError {
			t.Errorf("status = %s, want %s", final.Status, jobModel.JobStatusError)
		}
		if final.Error.Code != http.StatusUnprocessableEntity || !final.Error.Retry {
			t.Errorf("error = %+v", final.Error)
		}
	})

	t.Run("Unknown job type is an error", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "odd-1", JobType: "Reindex"}

		final := waitForFinalState(t, saved, "odd-1")
		if final.Status != jobModel.JobStatusError || final.Error.Code != http.StatusBadRequest {
			t.Errorf("got status %s, error %+v", final.Status, final.Error)
		}
	})

	if got := atomic.LoadInt32(&mockDocs.ProcessedCount); got != 2 {
		t.Errorf("Expected 2 jobs reaching the service, got %d", got)
	}

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		deadline := time.Now().Add(time.Second)
		for atomic.LoadInt64(&currentWorkerCount) < 2 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		if count := atomic.LoadInt64(&currentWorkerCount); count < 2 {
			t.Errorf("Expected at least 2 workers, got %d", count)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
		if count := atomic.LoadInt64(&currentWorkerCount); count != 0 {
			t.Errorf("worker count after stop = %d", count)
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	previousTimeout := config.IdleWorkerTimeout
	config.IdleWorkerTimeout = 50 * time.Millisecond
	t.Cleanup(func() {
		config.IdleWorkerTimeout = previousTimeout
		atomic.StoreInt64(&minWorkerCount, config.MinWorkerCount)
	})

	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 1)
	logger = logger_i.NewLogger("TestWorkerPool")
	InitServices(&job.Service{JobChannel: make(chan jobModel.Job)}, &MockDocService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	createWorker()
	createWorker()
	createWorker()
	time.Sleep(5 * config.IdleWorkerTimeout)

	if count := atomic.LoadInt64(&currentWorkerCount); count != 1 {
		t.Errorf("idle workers should retire down to the minimum, count is %d", count)
	}

	close(stopChan)
	wg.Wait()
	if count := atomic.LoadInt64(&currentWorkerCount); count != 0 {
		t.Errorf("worker count after stop = %d", count)
	}
}

func TestTryRetire(t *testing.T) {
	t.Cleanup(func() { atomic.StoreInt64(&minWorkerCount, config.MinWorkerCount) })

	tests := []struct {
		name      string
		count     int64
		min       int64
		wantRetry bool
		wantCount int64
	}{
		{"above minimum", 3, 1, true, 2},
		{"at minimum", 1, 1, false, 1},
		{"below minimum", 0, 1, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atomic.StoreInt64(&currentWorkerCount, tt.count)
			atomic.StoreInt64(&minWorkerCount, tt.min)

			if got := tryRetire(); got != tt.wantRetry {
				t.Errorf("tryRetire() = %v, want %v", got, tt.wantRetry)
			}
			if got := atomic.LoadInt64(&currentWorkerCount); got != tt.wantCount {
				t.Errorf("count = %d, want %d", got, tt.wantCount)
			}
		})
	}
	atomic.StoreInt64(&currentWorkerCount, 0)
}
