// File: internal/services/admin_services/admin_service.go
package admin_services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iyunix/go-legalist/internal/repository/user"
)

var ErrCannotDeleteSelf = errors.New("you cannot delete your own account")

// Logger defines the logging interface used by the admin service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// UserDetail is one row of the admin user listing.
type UserDetail struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	IsAdmin      bool      `json:"is_admin"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	ChatSessions int64     `json:"chat_sessions"`
	Cases        int64     `json:"cases"`
	Schedules    int64     `json:"schedules"`
}

// UserPage is a page of the listing plus the total match count.
type UserPage struct {
	Users []UserDetail `json:"users"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// AccountDeleter removes a user together with their data.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, userID uint) error
}

// AdminService provides functionalities for administrative tasks.
type AdminService struct {
	userRepo user.UserRepository
	accounts AccountDeleter
	logger   Logger
}

// NewAdminService creates a new instance of AdminService.
func NewAdminService(userRepo user.UserRepository, accounts AccountDeleter, logger Logger) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		accounts: accounts,
		logger:   logger,
	}
}

// ListUsers returns a page of users with what each one owns.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int, search string) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	users, total, err := s.userRepo.FindAllWithPaginationAndSearch(ctx, page, limit, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := s.userRepo.CountRelated(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count user data: %w", err)
	}

	out := make([]UserDetail, 0, len(users))
	for _, u := range users {
		c := counts[u.ID]
		out = append(out, UserDetail{
			ID:           u.ID,
			Email:        u.Email,
			FullName:     u.FullName,
			IsAdmin:      u.IsAdmin,
			IsActive:     u.IsActive,
			CreatedAt:    u.CreatedAt,
			ChatSessions: c.ChatSessions,
			Cases:        c.Documents,
			Schedules:    c.Schedules,
		})
	}
	return &UserPage{Users: out, Total: total, Page: page, Limit: limit}, nil
}

// DeleteUser removes another user's account. Admins cannot delete themselves here.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, targetID uint) error {
	if adminID == targetID {
		return ErrCannotDeleteSelf
	}
	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.accounts.DeleteAccount(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", targetID, err)
	}
	s.logger.Info("user deleted by admin", "admin_id", adminID, "user_id", targetID)
	return nil
}
