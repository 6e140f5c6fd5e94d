package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "docchat_active_sessions",
	Help: "Number of live chat sessions",
})

var extractionStrategy = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docchat_extraction_strategy_total",
	Help: "Documents extracted, labelled by the strategy that produced the text",
}, []string{"strategy"})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docchat_documents_ingested_total",
	Help: "Documents added to a session, labelled by type",
}, []string{"type"})

var ingestRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docchat_ingest_rejected_total",
	Help: "Ingestion requests refused, labelled by reason",
}, []string{"reason"})

var answerKind = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docchat_answers_total",
	Help: "Answers produced, labelled by the handler that produced them",
}, []string{"kind"})

// HttpStatusRecorder remembers the status written so middleware can label it.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush passes through to the underlying writer; streaming responses (MCP SSE) need it.
func (r *HttpStatusRecorder) Flush() {
	_ = http.NewResponseController(r.ResponseWriter).Flush()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func SetActiveSessions(count int) {
	activeSessions.Set(float64(count))
}

func CaptureExtraction(strategy string) {
	extractionStrategy.WithLabelValues(strategy).Inc()
}

func CaptureDocumentIngested(docType string) {
	documentsIngested.WithLabelValues(docType).Inc()
}

func CaptureIngestRejected(reason string) {
	ingestRejected.WithLabelValues(reason).Inc()
}

func CaptureAnswer(kind string) {
	answerKind.WithLabelValues(kind).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent processing a job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var stepLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "step_latency_seconds",
	Help:    "Latency of individual processing steps.",
	Buckets: []float64{.005, .05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"step"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	stepLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
