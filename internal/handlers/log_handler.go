package handlers

import (
	"net/http"
	"strings"
)

// ClientLogPayload is a log entry reported by the browser.
type ClientLogPayload struct {
	Level   string      `json:"level"`
	Message string      `json:"message"`
	Context interface{} `json:"context,omitempty"`
}

// ClientLogHandler forwards browser log entries to the server log.
type ClientLogHandler struct {
	logger Logger
}

func NewClientLogHandler(logger Logger) *ClientLogHandler {
	return &ClientLogHandler{logger: logger}
}

func (h *ClientLogHandler) LogClientEvent(w http.ResponseWriter, r *http.Request) {
	var payload ClientLogPayload
	if err := decodeJSON(r, &payload); err != nil || payload.Message == "" {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	fields := []interface{}{"source", "client", "context", payload.Context}
	switch strings.ToLower(payload.Level) {
	case "error":
		h.logger.Error(payload.Message, fields...)
	case "warn", "warning":
		h.logger.Warn(payload.Message, fields...)
	case "debug":
		h.logger.Debug(payload.Message, fields...)
	default:
		h.logger.Info(payload.Message, fields...)
	}
	w.WriteHeader(http.StatusNoContent)
}
