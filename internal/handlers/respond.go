// File: internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-legalist/internal/repository/chat"
	"github.com/iyunix/go-legalist/internal/repository/document"
	"github.com/iyunix/go-legalist/internal/repository/schedule"
	"github.com/iyunix/go-legalist/internal/repository/user"
	"github.com/iyunix/go-legalist/internal/services"
	"github.com/iyunix/go-legalist/internal/services/admin_services"
	chatservice "github.com/iyunix/go-legalist/internal/services/chat"
	"github.com/iyunix/go-legalist/internal/services/user_services"
	"github.com/iyunix/go-legalist/internal/storage"
)

// Logger is the logging surface the handlers need.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

const maxJSONBody = 1 << 20

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	return dec.Decode(dst)
}

// pathID parses a numeric route variable.
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps service and repository errors to HTTP responses.
// Unknown errors are logged and reported as 500 without their detail.
func writeServiceError(w http.ResponseWriter, logger Logger, op string, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "operation", op, "error", err)
	}
	writeError(w, msg, status)
}

func classify(err error) (int, string) {
	var chatErr *chatservice.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chatservice.ErrTypeValidation:
			return http.StatusBadRequest, chatErr.Message
		case chatservice.ErrTypeNotFound:
			return http.StatusNotFound, "Session not found"
		case chatservice.ErrTypeUnauthorized:
			return http.StatusForbidden, "Session not found or access denied"
		}
		return http.StatusInternalServerError, "Internal server error"
	}

	var validation *user_services.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, user_services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect credentials"
	case errors.Is(err, user_services.ErrAccountDisabled):
		return http.StatusForbidden, "Account is disabled"
	case errors.Is(err, user_services.ErrInvalidResetToken),
		errors.Is(err, user_services.ErrCurrentPasswordRequired),
		errors.Is(err, user_services.ErrCurrentPasswordWrong),
		errors.Is(err, admin_services.ErrCannotDeleteSelf),
		errors.Is(err, services.ErrEmptyUpload),
		errors.Is(err, services.ErrInvalidSchedule):
		return http.StatusBadRequest, capitalize(err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, document.ErrDocumentNotFound):
		return http.StatusNotFound, "Document not found"
	case errors.Is(err, schedule.ErrScheduleNotFound):
		return http.StatusNotFound, "Schedule not found"
	case errors.Is(err, chat.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "File not found on server"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// NotFound is the router's JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, "Not found", http.StatusNotFound)
}

// MethodNotAllowed is the router's JSON 405.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
}
