// File: internal/handlers/case_handler.go
package handlers

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-legalist/internal/jobs"
	"github.com/iyunix/go-legalist/internal/middleware"
	"github.com/iyunix/go-legalist/internal/services"
)

const (
	maxUploadBytes  = 25 << 20
	multipartMemory = 8 << 20
)

// JobLookup reads background job state.
type JobLookup interface {
	GetJob(ctx context.Context, id string) (jobs.JobStatus, bool, error)
}

// CaseHandler serves the case document endpoints.
type CaseHandler struct {
	documents *services.DocumentService
	jobs      JobLookup
	logger    Logger
}

func NewCaseHandler(documents *services.DocumentService, jobs JobLookup, logger Logger) *CaseHandler {
	return &CaseHandler{documents: documents, jobs: jobs, logger: logger}
}

// Upload stores a document and schedules its translation. The response is
// sent before translation starts; clients poll the document for its status.
func (h *CaseHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.documents.Upload(r.Context(), userID, header.Filename, file, header.Size, r.FormValue("language"))
	if err != nil {
		writeServiceError(w, h.logger, "upload_case", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "File uploaded successfully",
		"case_id": result.Document.ID,
		"job_id":  result.JobID,
		"status":  result.Document.Status,
	})
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	docs, err := h.documents.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "list_cases", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get returns one document including its translation status and content.
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, docID, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	doc, err := h.documents.Get(r.Context(), userID, docID)
	if err != nil {
		writeServiceError(w, h.logger, "get_case", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Download returns the original uploaded file.
func (h *CaseHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, docID, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	doc, content, err := h.documents.Download(r.Context(), userID, docID)
	if err != nil {
		writeServiceError(w, h.logger, "download_case", err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(doc.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, docID, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.documents.Delete(r.Context(), userID, docID); err != nil {
		writeServiceError(w, h.logger, "delete_case", err)
		return
	}
	writeMessage(w, "Document deleted successfully")
}

// Retranslate schedules a new translation, optionally into another language.
func (h *CaseHandler) Retranslate(w http.ResponseWriter, r *http.Request) {
	userID, docID, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	var req struct {
		Language string `json:"language"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.documents.Retranslate(r.Context(), userID, docID, req.Language)
	if err != nil {
		writeServiceError(w, h.logger, "retranslate_case", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "Translation scheduled",
		"case_id": result.Document.ID,
		"job_id":  result.JobID,
		"status":  result.Document.Status,
	})
}

// JobStatus reports a translation job's queue state. Jobs are only visible
// to the owner of their document.
func (h *CaseHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	job, found, err := h.jobs.GetJob(r.Context(), mux.Vars(r)["job_id"])
	if err != nil {
		writeServiceError(w, h.logger, "job_status", err)
		return
	}
	if !found {
		writeError(w, "Job not found", http.StatusNotFound)
		return
	}
	if _, err := h.documents.Get(r.Context(), userID, job.DocumentID); err != nil {
		writeError(w, "Job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *CaseHandler) ownerAndID(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return 0, 0, false
	}
	docID, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Invalid document ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, docID, true
}
