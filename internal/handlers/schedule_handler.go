// File: internal/handlers/schedule_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iyunix/go-legalist/internal/middleware"
	"github.com/iyunix/go-legalist/internal/services"
)

// Browsers send datetime-local values without a zone; those are read as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDateTime(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// optionalDate parses an optional date field. ok is false only for a
// present but unparseable value.
func optionalDate(v *string) (*time.Time, bool) {
	if v == nil || *v == "" {
		return nil, true
	}
	t, ok := parseDateTime(*v)
	if !ok {
		return nil, false
	}
	return &t, true
}

type scheduleRequest struct {
	CaseName            *string `json:"case_name"`
	CourtDate           *string `json:"court_date"`
	ReminderDate        *string `json:"reminder_date"`
	Status              *string `json:"status"`
	Progress            *string `json:"progress"`
	NotificationEnabled *bool   `json:"notification_enabled"`
}

type ScheduleHandler struct {
	schedules *services.ScheduleService
	logger    Logger
}

func NewScheduleHandler(schedules *services.ScheduleService, logger Logger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, logger: logger}
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in := services.ScheduleInput{
		Progress:            req.Progress,
		NotificationEnabled: req.NotificationEnabled,
	}
	if req.CaseName != nil {
		in.CaseName = *req.CaseName
	}
	if req.Status != nil {
		in.Status = *req.Status
	}
	court, ok := optionalDate(req.CourtDate)
	if !ok || court == nil {
		writeError(w, "court_date is required and must be a date", http.StatusBadRequest)
		return
	}
	in.CourtDate = *court
	if in.ReminderDate, ok = optionalDate(req.ReminderDate); !ok {
		writeError(w, "reminder_date must be a date", http.StatusBadRequest)
		return
	}

	sch, err := h.schedules.Create(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, h.logger, "create_schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, sch)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	list, err := h.schedules.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "list_schedules", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Upcoming returns court dates within ?days= days (default 7).
func (h *ScheduleHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	days := services.DefaultUpcomingDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, "days must be a positive number", http.StatusBadRequest)
			return
		}
		days = n
	}

	list, err := h.schedules.Upcoming(r.Context(), userID, days)
	if err != nil {
		writeServiceError(w, h.logger, "upcoming_schedules", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Invalid schedule ID", http.StatusBadRequest)
		return
	}
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in := services.ScheduleUpdate{
		CaseName:            req.CaseName,
		Status:              req.Status,
		Progress:            req.Progress,
		NotificationEnabled: req.NotificationEnabled,
	}
	if in.CourtDate, ok = optionalDate(req.CourtDate); !ok {
		writeError(w, "court_date must be a date", http.StatusBadRequest)
		return
	}
	if in.ReminderDate, ok = optionalDate(req.ReminderDate); !ok {
		writeError(w, "reminder_date must be a date", http.StatusBadRequest)
		return
	}

	sch, err := h.schedules.Update(r.Context(), userID, id, in)
	if err != nil {
		writeServiceError(w, h.logger, "update_schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, sch)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Invalid schedule ID", http.StatusBadRequest)
		return
	}

	if err := h.schedules.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, "delete_schedule", err)
		return
	}
	writeMessage(w, "Schedule deleted successfully")
}
