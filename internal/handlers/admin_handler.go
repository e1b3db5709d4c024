// File: internal/handlers/admin_handler.go
package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iyunix/go-legalist/internal/middleware"
	"github.com/iyunix/go-legalist/internal/services/admin_services"
)

const exportPageSize = 200

type AdminHandler struct {
	adminService *admin_services.AdminService
	logger       Logger
}

func NewAdminHandler(adminService *admin_services.AdminService, logger Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// GetAllUsersHandler returns a page of users with their per-user counts.
func (h *AdminHandler) GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = 50
	}

	result, err := h.adminService.ListUsers(r.Context(), page, limit, query.Get("search"))
	if err != nil {
		writeServiceError(w, h.logger, "list_users", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteUserHandler removes another user's account and data.
func (h *AdminHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromContext(r.Context())
	targetID, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), adminID, targetID); err != nil {
		writeServiceError(w, h.logger, "delete_user", err)
		return
	}
	writeMessage(w, "User deleted successfully")
}

// ExportUsersCSVHandler streams every user as CSV.
func (h *AdminHandler) ExportUsersCSVHandler(w http.ResponseWriter, r *http.Request) {
	first, err := h.adminService.ListUsers(r.Context(), 1, exportPageSize, "")
	if err != nil {
		writeServiceError(w, h.logger, "export_users", err)
		return
	}

	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{"ID", "Email", "FullName", "IsAdmin", "IsActive", "CreatedAt", "ChatSessions", "Cases", "Schedules"}
	if err := csvWriter.Write(header); err != nil {
		h.logger.Error("error writing CSV header", "error", err)
		return
	}

	written := 0
	for page, batch := 1, first; ; page++ {
		for _, u := range batch.Users {
			record := []string{
				strconv.FormatUint(uint64(u.ID), 10),
				u.Email,
				u.FullName,
				strconv.FormatBool(u.IsAdmin),
				strconv.FormatBool(u.IsActive),
				u.CreatedAt.UTC().Format(time.RFC3339),
				strconv.FormatInt(u.ChatSessions, 10),
				strconv.FormatInt(u.Cases, 10),
				strconv.FormatInt(u.Schedules, 10),
			}
			if err := csvWriter.Write(record); err != nil {
				h.logger.Error("error writing CSV record", "user_id", u.ID, "error", err)
				return
			}
			written++
		}
		if len(batch.Users) < exportPageSize || int64(written) >= batch.Total {
			break
		}
		next, err := h.adminService.ListUsers(r.Context(), page+1, exportPageSize, "")
		if err != nil {
			h.logger.Error("export stopped early", "page", page+1, "error", err)
			return
		}
		batch = next
	}
	h.logger.Info("exported users to CSV", "count", written)
}
