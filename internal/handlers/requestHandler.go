package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/DocChat/internal/adapter"
	"github.com/akolanti/DocChat/internal/adapter/utils"
	"github.com/akolanti/DocChat/internal/api"
	"github.com/akolanti/DocChat/internal/docqa/textkit"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/pkg/logger_i"
)

var logRH *logger_i.Logger

// GetHandler godoc
// @Summary      Health check
// @Tags         Health
// @Success      200
// @Router       /health [get]
func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// CreateSessionHandler godoc
// @Summary      Create a chat session
// @Description  Starts an empty session. Documents, corpus and chat log all hang off the returned id.
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  api.CreateSessionResponse
// @Failure      500  {object}  api.JobResponse
// @Router       /sessions [post]
func CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	sess, err := handlerInstance.docs.CreateSession(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusCreated, api.CreateSessionResponse{SessionId: sess.Id})
}

// GetSessionHandler godoc
// @Summary      Describe a session
// @Description  Lists the loaded documents with humanized sizes, the corpus length and whether an ingestion is running.
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.SessionResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /sessions/{id} [get]
func GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	sess, err := handlerInstance.docs.GetSession(id)
	if err != nil {
		writeServiceError(r.Context(), w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(sess))
}

// DeleteSessionHandler godoc
// @Summary      Delete a session
// @Tags         Sessions
// @Param        id   path      string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  api.JobResponse
// @Router       /sessions/{id} [delete]
func DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if err := handlerInstance.docs.RemoveSession(r.Context(), id); err != nil {
		writeServiceError(r.Context(), w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearDocumentsHandler godoc
// @Summary      Clear all documents
// @Description  Empties the session's documents, corpus and chat log.
// @Tags         Documents
// @Param        id   path      string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  api.JobResponse
// @Router       /sessions/{id}/documents [delete]
func ClearDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if err := handlerInstance.docs.ClearDocuments(r.Context(), id); err != nil {
		writeServiceError(r.Context(), w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PasteTextHandler godoc
// @Summary      Add pasted text
// @Description  Adds the trimmed text as a document named "Pasted Text".
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Session ID"
// @Param        request  body      api.TextRequest   true  "Text to add"
// @Success      201      {object}  api.TextResponse
// @Failure      400      {object}  api.JobResponse   "Blank text"
// @Failure      404      {object}  api.JobResponse
// @Failure      409      {object}  api.JobResponse   "Another ingestion is running"
// @Router       /sessions/{id}/text [post]
func PasteTextHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	defer closeBody(r.Body)

	var requestData api.TextRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.WithTrace(r.Context()).Warn("Bad text request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, id, "Bad Request")
		return
	}

	doc, message, err := handlerInstance.docs.IngestText(r.Context(), id, requestData.Text)
	if err != nil {
		writeServiceError(r.Context(), w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusCreated, api.TextResponse{
		Document: adapter.ToDocumentResponse(doc.Info()),
		Message:  message,
	})
}

// ChatHandler godoc
// @Summary      Ask a question
// @Description  Queues a question against the session's documents and returns a job ID to poll.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Session ID"
// @Param        request  body      api.ChatRequest      true  "Question"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Failure      404      {object}  api.JobResponse      "Session not found"
// @Router       /sessions/{id}/chat [post]
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	id := utils.GetChiURLParam(r, "id")
	defer closeBody(r.Body)

	var requestData api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || textkit.Trim(requestData.Message) == "" {
		logRH.WithTrace(r.Context()).Warn("Bad Chat Request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, id, "Bad Request")
		return
	}
	if _, err := handlerInstance.docs.GetSession(id); err != nil {
		writeServiceError(r.Context(), w, id, err)
		return
	}

	queryJob := newJob(r.Context(), id, jobModel.JobTypeQuery)
	queryJob.JobPayload.Question = requestData.Message
	CreateNewJob(r.Context(), queryJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(queryJob.Id))
}

// MessagesHandler godoc
// @Summary      Chat log
// @Description  Returns the session's messages, oldest first.
// @Tags         Messaging
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.MessagesResponse
// @Failure      404  {object}  api.JobResponse
// @Router       /sessions/{id}/messages [get]
func MessagesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	messages, err := handlerInstance.docs.Messages(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToMessagesResponse(id, messages))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	logRH.WithTrace(r.Context()).Debug("Get Status Request", "URL path", r.URL.Path)

	if idString == "" {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	result, isFound := GetJobStatus(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logRH.Error("Couldn't close the request body", "error", err)
	}
}
