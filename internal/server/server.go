package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/DocChat/internal/adapter/utils"
	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/middleware"
	"github.com/akolanti/DocChat/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, mcpHandler http.Handler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()
	registerRoutes(r.Router, mcpHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func registerRoutes(r chi.Router, mcpHandler http.Handler) {
	r.Get("/health", middleware.GetHandler)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", middleware.CreateSessionHandler)
		r.Get("/{id}", middleware.GetSessionHandler)
		r.Delete("/{id}", middleware.DeleteSessionHandler)

		r.Post("/{id}/documents", middleware.UploadDocumentsHandler)
		r.Delete("/{id}/documents", middleware.ClearDocumentsHandler)
		r.Post("/{id}/text", middleware.PasteTextHandler)

		r.Post("/{id}/chat", middleware.ChatHandler)
		r.Get("/{id}/messages", middleware.MessagesHandler)
	})

	r.Get("/status/{id}", middleware.GetStatusHandler)

	if mcpHandler != nil {
		r.Handle("/mcp", middleware.WrapMCP(mcpHandler))
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	log := logger_i.NewLogger("Shutdown")
	state := <-shutdownParams.GracefulShutdown
	log.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			log.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		log.Info("Gracefully shut down")
	case <-ctx.Done():
		log.Info("Force Shut down")
		os.Exit(1)
	}
}
