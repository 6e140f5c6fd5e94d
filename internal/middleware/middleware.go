package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/DocChat/internal/adapter/utils"
	"github.com/akolanti/DocChat/internal/handlers"
	"github.com/akolanti/DocChat/internal/metrics"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
	scope      limitScope
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var CreateSessionHandler = Wrap(handlers.CreateSessionHandler)
var GetSessionHandler = Wrap(handlers.GetSessionHandler)
var DeleteSessionHandler = Wrap(handlers.DeleteSessionHandler)

var UploadDocumentsHandler = Wrap(handlers.UploadDocumentsHandler)
var PasteTextHandler = Wrap(handlers.PasteTextHandler)
var ClearDocumentsHandler = Wrap(handlers.ClearDocumentsHandler)

var ChatHandler = Wrap(handlers.ChatHandler)
var MessagesHandler = Wrap(handlers.MessagesHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

// WrapMCP runs the MCP endpoint through the same chain, rate limited on its own budget.
func WrapMCP(next http.Handler) http.HandlerFunc {
	return wrapScoped(next.ServeHTTP, scopeMCP)
}

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return wrapScoped(next, scopeAPI)
}

func wrapScoped(next http.HandlerFunc, scope limitScope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec, scope: scope})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}

		//route pattern is only known once chi has routed the request
		metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(r), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")

	for _, step := range []func(requestResponseStruct) requestResponseStruct{injectTrace, rateLimiter, authenticate} {
		re = step(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	return re
}
