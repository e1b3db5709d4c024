package chat

import (
	"context"
	"time"

	"github.com/iyunix/go-legalist/internal/domain"
)

// ChatRepository handles chat session data operations.
type ChatRepository interface {
	Create(ctx context.Context, session *domain.ChatSession) (*domain.ChatSession, error)
	FindByID(ctx context.Context, id uint) (*domain.ChatSession, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.ChatSession, error)
	// Delete removes the session and all of its messages in one transaction.
	Delete(ctx context.Context, sessionID uint) error
	TouchUpdatedAt(ctx context.Context, sessionID uint, at time.Time) error
}
