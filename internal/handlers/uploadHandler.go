package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocChat/internal/adapter"
	"github.com/akolanti/DocChat/internal/adapter/utils"
	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/docqa"
	"github.com/akolanti/DocChat/internal/domain/docModel"
	"github.com/akolanti/DocChat/internal/domain/jobModel"
	"github.com/akolanti/DocChat/internal/metrics"
	"github.com/gabriel-vasile/mimetype"
)

const uploadField = "documents"

// UploadDocumentsHandler godoc
// @Summary      Upload documents
// @Description  Receives PDF and TXT files via multipart/form-data, stages them and queues one ingestion job for the batch. Other files in the batch are dropped.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true  "Session ID"
// @Param        documents  formData  file    true  "One or more PDF or TXT files"
// @Success      202  {object}  api.InitJobResponse  "Accepted - poll status_url"
// @Failure      400  {object}  api.JobResponse      "No supported files, or file too large"
// @Failure      404  {object}  api.JobResponse      "Session not found"
// @Failure      409  {object}  api.JobResponse      "Another ingestion is running"
// @Failure      500  {object}  api.JobResponse      "Storage or write error"
// @Router       /sessions/{id}/documents [post]
func UploadDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	ctx := r.Context()
	log := logRH.WithTrace(ctx)
	id := utils.GetChiURLParam(r, "id")

	if _, err := handlerInstance.docs.GetSession(id); err != nil {
		writeServiceError(ctx, w, id, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, id, "File too large or bad request")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("Could not remove multipart temp files", "error", err)
		}
	}()

	accepted := supportedUploads(r.MultipartForm.File[uploadField])
	if len(accepted) == 0 {
		metrics.CaptureIngestRejected("unsupported")
		writeServiceError(ctx, w, id, docqa.ErrUnsupportedType)
		return
	}

	if _, err := handlerInstance.docs.BeginIngest(id); err != nil {
		writeServiceError(ctx, w, id, err)
		return
	}

	staged, err := stageUploads(accepted)
	if err != nil {
		handlerInstance.docs.EndIngest(id)
		log.Error("Staging uploads failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
		return
	}

	ingestJob := newJob(ctx, id, jobModel.JobTypeIngest)
	ingestJob.JobPayload.IngestFiles = staged
	CreateNewJob(ctx, ingestJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(ingestJob.Id))
}

type upload struct {
	header  *multipart.FileHeader
	docType docModel.DocType
}

// supportedUploads keeps the files declared or named as text or PDF.
func supportedUploads(headers []*multipart.FileHeader) []upload {
	var accepted []upload
	for _, header := range headers {
		docType := docModel.GetDocType(header.Filename, header.Header.Get("Content-Type"))
		if docType == docModel.ERR {
			logRH.Debug("Dropping unsupported upload", "file", header.Filename)
			continue
		}
		accepted = append(accepted, upload{header: header, docType: docType})
	}
	return accepted
}

// stageUploads copies every accepted file into the staging directory, or none of them.
func stageUploads(uploads []upload) ([]jobModel.IngestFile, error) {
	targetDir, err := getTargetDirectory()
	if err != nil {
		return nil, fmt.Errorf("staging directory: %w", err)
	}

	staged := make([]jobModel.IngestFile, 0, len(uploads))
	for _, u := range uploads {
		file, err := stageUpload(targetDir, u)
		if err != nil {
			for _, done := range staged {
				_ = os.Remove(done.Path)
			}
			return nil, err
		}
		staged = append(staged, file)
	}
	return staged, nil
}

func stageUpload(targetDir string, u upload) (jobModel.IngestFile, error) {
	name := filepath.Base(u.header.Filename)
	src, err := u.header.Open()
	if err != nil {
		return jobModel.IngestFile{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer src.Close()

	tempFilePath := filepath.Join(targetDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), name))
	dst, err := os.Create(tempFilePath)
	if err != nil {
		return jobModel.IngestFile{}, fmt.Errorf("create %s: %w", tempFilePath, err)
	}
	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tempFilePath)
		return jobModel.IngestFile{}, fmt.Errorf("write %s: %w", name, err)
	}

	return jobModel.IngestFile{
		Name:      name,
		Path:      tempFilePath,
		SizeBytes: written,
		MimeHint:  mimeHint(u.header, tempFilePath),
		DocType:   u.docType,
	}, nil
}

// mimeHint is the declared content type, or a sniffed one for display when none was sent.
func mimeHint(header *multipart.FileHeader, path string) string {
	if declared := header.Header.Get("Content-Type"); declared != "" && declared != "application/octet-stream" {
		return declared
	}
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	return detected.String()
}
