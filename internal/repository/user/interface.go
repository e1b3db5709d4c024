package user

import (
	"context"

	"github.com/iyunix/go-legalist/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAllWithPaginationAndSearch(ctx context.Context, page, limit int, search string) ([]domain.User, int64, error)
	CountRelated(ctx context.Context, userIDs []uint) (map[uint]RelatedCounts, error)
	// Delete removes the user with their sessions, messages, documents, schedules
	// and reset tokens in one transaction.
	Delete(ctx context.Context, userID uint) error
}

// RelatedCounts summarizes what a user owns, for the admin listing.
type RelatedCounts struct {
	ChatSessions int64 `json:"chat_sessions"`
	Documents    int64 `json:"documents"`
	Schedules    int64 `json:"schedules"`
}
