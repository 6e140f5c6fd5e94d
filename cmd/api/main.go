// @title           DocChat API
// @version         1.0
// @description     Upload PDF or TXT documents into a session and ask questions about them.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/data/store"
	"github.com/akolanti/DocChat/internal/docqa"
	"github.com/akolanti/DocChat/internal/docqa/extract"
	jobmodel "github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/internal/handlers"
	"github.com/akolanti/DocChat/internal/job"
	"github.com/akolanti/DocChat/internal/mcpServer"
	"github.com/akolanti/DocChat/internal/server"
	"github.com/akolanti/DocChat/internal/worker"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

var (
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	if err := config.Load(); err != nil {
		logger.Error("Could not load configuration", "error", err)
		os.Exit(1)
	}
	flag.StringVar(&listenAddr, "listen-addr", config.ListenAddr, "server listen address")
	flag.Parse()

	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init stores, then the job queue
	logger.Info("Starting job service")
	var jobStore jobmodel.JobStore
	var messageStore jobmodel.MessageStore

	//typed nil pointers must not reach the interface values
	redisJobs, redisMessages := store.GetRedisJobStore(serviceContext), store.GetRedisMessageStore(serviceContext)
	switch {
	case redisJobs != nil && redisMessages != nil:
		jobStore, messageStore = redisJobs, redisMessages
	case config.FALLBACK_REDIS_TO_INTERNALSTORE:
		logger.Warn("Redis stores are offline, using in-memory stores")
		jobStore, messageStore = store.InitInMemoryJobStore(), store.InitMessageStore()
	default:
		logger.Error("Redis stores are offline and fallback is disabled. Shutting down.")
		return
	}
	service := job.NewService(jobStore, messageStore, config.BufferLimit)

	extractor := extract.New(extract.NewPDFLibrary(config.PageExtractTimeout))
	docService := docqa.NewService(extractor, service.MessageStore, docqa.RandomDelay(config.AnswerDelayMin, config.AnswerDelayMax))

	handlers.InitJobHandler(service, docService)

	//init worker pool
	worker.InitServices(service, docService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	mcpTools := mcpServer.NewServer(docService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcpTools.Handler())

	<-stopExecution
	logger.Info("Server stopped")
}
