// File: internal/handlers/chat_handler.go
package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/iyunix/go-legalist/internal/middleware"
	"github.com/iyunix/go-legalist/internal/services"
)

type ChatHandler struct {
	ChatService *services.ChatService
	logger      Logger
}

func NewChatHandler(cs *services.ChatService, logger Logger) *ChatHandler {
	return &ChatHandler{
		ChatService: cs,
		logger:      logger,
	}
}

// ListSessions returns the caller's sessions, most recent first.
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	sessions, err := h.ChatService.ListSessions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "list_sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil && err != io.EOF {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	session, err := h.ChatService.CreateSession(r.Context(), userID, req.Title)
	if err != nil {
		writeServiceError(w, h.logger, "create_session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// GetHistory returns the messages of a session in chronological order.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	history, err := h.ChatService.GetHistory(r.Context(), middleware.OptionalUserID(r.Context()), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, "get_history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.DeleteSession(r.Context(), middleware.OptionalUserID(r.Context()), sessionID); err != nil {
		writeServiceError(w, h.logger, "delete_session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Session deleted"})
}

type messageRequest struct {
	SessionID *uint  `json:"session_id"`
	Message   string `json:"message"`
}

// SendMessage runs one chat turn. Without a session_id a new session is
// started. Guests may chat; their sessions have no owner.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	var sessionID uint
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}

	reply, err := h.ChatService.SendMessage(r.Context(), middleware.OptionalUserID(r.Context()), sessionID, req.Message)
	if err != nil {
		writeServiceError(w, h.logger, "send_message", err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Upload attaches a PDF to a session as context for later turns.
func (h *ChatHandler) Upload(w http.ResponseWriter, r *http.Request) {
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
	sessionID, err := strconv.ParseUint(r.FormValue("session_id"), 10, 32)
	if err != nil || sessionID == 0 {
		writeError(w, "session_id is required", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "Could not read upload", http.StatusBadRequest)
		return
	}

	result, err := h.ChatService.AttachDocument(r.Context(), userID, uint(sessionID), header.Filename, content)
	if err != nil {
		writeServiceError(w, h.logger, "attach_document", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"message":     "Document processed and added to context",
		"document_id": result.DocumentID,
		"truncated":   result.Truncated,
	})
}

// Draft asks the model for a legal document draft.
func (h *ChatHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic   string `json:"topic"`
		Details string `json:"details"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := h.ChatService.Draft(r.Context(), req.Topic, req.Details)
	if err != nil {
		writeServiceError(w, h.logger, "draft", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"draft": draft})
}
