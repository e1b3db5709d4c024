// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/iyunix/go-legalist/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
	// FindBySessionID returns the whole history in chronological order.
	FindBySessionID(ctx context.Context, sessionID uint) ([]domain.ChatMessage, error)
	// FindRecent returns the last limit messages, oldest first.
	FindRecent(ctx context.Context, sessionID uint, limit int) ([]domain.ChatMessage, error)
	CountBySessionID(ctx context.Context, sessionID uint) (int64, error)
}
